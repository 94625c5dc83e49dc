package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"mining-miniapp-backend/internal/services"
)

const testBotToken = "12345:test-bot-token"

// signInitData produces an initData blob the way the Telegram WebApp does.
func signInitData(t *testing.T, params map[string]string) string {
	t.Helper()

	pairs := make([]string, 0, len(params))
	for key, value := range params {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	keyMAC := hmac.New(sha256.New, []byte("WebAppData"))
	keyMAC.Write([]byte(testBotToken))
	secret := keyMAC.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":99,"first_name":"Ann","username":"ann"}`,
	})

	user, err := services.VerifyInitData(initData, testBotToken)
	if err != nil {
		t.Fatalf("Failed to verify init data: %v", err)
	}
	if user.ID != 99 {
		t.Errorf("Expected user ID 99, got %d", user.ID)
	}
	if user.Username != "ann" {
		t.Errorf("Expected username ann, got %q", user.Username)
	}
}

func TestVerifyInitDataTampered(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":99,"first_name":"Ann"}`,
	})

	tampered := strings.Replace(initData, "Ann", "Eve", 1)
	if _, err := services.VerifyInitData(tampered, testBotToken); err == nil {
		t.Error("Expected tampered init data to fail verification")
	}
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":99,"first_name":"Ann"}`,
	})

	if _, err := services.VerifyInitData(initData, "other-token"); err == nil {
		t.Error("Expected verification with wrong bot token to fail")
	}
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	if _, err := services.VerifyInitData("auth_date=1700000000", testBotToken); err == nil {
		t.Error("Expected init data without hash to fail")
	}
}
