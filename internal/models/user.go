package models

// TelegramUser is the profile handed to us by the Telegram WebApp handshake.
type TelegramUser struct {
	ID           int64  `json:"id" redis:"id"`
	FirstName    string `json:"first_name" redis:"first_name"`
	LastName     string `json:"last_name,omitempty" redis:"last_name"`
	Username     string `json:"username,omitempty" redis:"username"`
	LanguageCode string `json:"language_code,omitempty" redis:"language_code"`
	PhotoURL     string `json:"photo_url,omitempty" redis:"photo_url"`
}

// AuthRequest mirrors what the mini-app posts to /auth/login: the raw
// initData string from Telegram plus the parsed user as a dev-mode fallback.
type AuthRequest struct {
	InitData string        `json:"initData"`
	User     *TelegramUser `json:"user,omitempty"`
}

func (u *TelegramUser) DisplayName() string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.Username
	}
	return name
}
