package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateRewardEventID() string {
	return fmt.Sprintf("reward_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateSessionID() string {
	return uuid.New().String()
}

// UTCDay formats t as the UTC calendar day used for lazy daily resets.
func UTCDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
