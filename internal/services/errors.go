package services

import "fmt"

// ErrorKind classifies the expected, user-facing failure modes of mining
// operations. Anything else propagates as KindInternal.
type ErrorKind string

const (
	KindStateConflict     ErrorKind = "state_conflict"
	KindQuotaExhausted    ErrorKind = "quota_exhausted"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindNothingToCollect  ErrorKind = "nothing_to_collect"
	KindAdNotEligible     ErrorKind = "ad_not_eligible"
	KindNotFound          ErrorKind = "not_found"
	KindInternal          ErrorKind = "internal"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrAlreadyMining    = &Error{Kind: KindStateConflict, Message: "mining session already active"}
	ErrNotMining        = &Error{Kind: KindStateConflict, Message: "no active mining session"}
	ErrQuotaExhausted   = &Error{Kind: KindQuotaExhausted, Message: "mining time quota exhausted"}
	ErrNotEnoughBalance = &Error{Kind: KindInsufficientFunds, Message: "balance too low for upgrade"}
	ErrMaxLevelReached  = &Error{Kind: KindStateConflict, Message: "maximum mining level reached"}
	ErrNothingToCollect = &Error{Kind: KindNothingToCollect, Message: "no pending reward to collect"}
	ErrAdNotEligible    = &Error{Kind: KindAdNotEligible, Message: "not eligible for ad reward"}
	ErrMinerNotFound    = &Error{Kind: KindNotFound, Message: "miner record not found"}
)

func internalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf("%s: %v", op, err)}
}
