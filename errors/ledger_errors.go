package errors

import (
	"fmt"

	"github.com/mezonai/powledger/jsonx"
)

// LedgerErrorCode represents standardized error codes for ledger operations
type LedgerErrorCode string

const (
	// Input errors
	ErrCodeInvalidAddress LedgerErrorCode = "invalid_address"
	ErrCodeInvalidAmount  LedgerErrorCode = "invalid_amount"

	// Consensus errors, never fatal for a resolution round
	ErrCodePeerUnreachable   LedgerErrorCode = "peer_unreachable"
	ErrCodeValidationFailure LedgerErrorCode = "validation_failure"
)

// Error message constants
const (
	ErrMsgInvalidAddress    = "Peer address has neither a network location nor a host:port form"
	ErrMsgInvalidAmount     = "Amount must be a finite number greater than zero"
	ErrMsgPeerUnreachable   = "Peer chain could not be fetched"
	ErrMsgValidationFailure = "Chain failed validation"
)

// LedgerError carries a code, a human message and an optional cause.
type LedgerError struct {
	Code    LedgerErrorCode `json:"code"`
	Message string          `json:"message"`
	Err     error           `json:"-"`
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	out, _ := jsonx.Marshal(LedgerError{
		Code:    e.Code,
		Message: msg,
	})
	return string(out)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Is matches any LedgerError with the same code, so sentinels work with errors.Is.
func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidAddress    = &LedgerError{Code: ErrCodeInvalidAddress, Message: ErrMsgInvalidAddress}
	ErrInvalidAmount     = &LedgerError{Code: ErrCodeInvalidAmount, Message: ErrMsgInvalidAmount}
	ErrPeerUnreachable   = &LedgerError{Code: ErrCodePeerUnreachable, Message: ErrMsgPeerUnreachable}
	ErrValidationFailure = &LedgerError{Code: ErrCodeValidationFailure, Message: ErrMsgValidationFailure}
)

func InvalidAddress(address string) error {
	return &LedgerError{
		Code:    ErrCodeInvalidAddress,
		Message: fmt.Sprintf("%s: %q", ErrMsgInvalidAddress, address),
	}
}

func InvalidAmount(amount float64) error {
	return &LedgerError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("%s: %v", ErrMsgInvalidAmount, amount),
	}
}

func PeerUnreachable(peer string, cause error) error {
	return &LedgerError{
		Code:    ErrCodePeerUnreachable,
		Message: fmt.Sprintf("%s from %s", ErrMsgPeerUnreachable, peer),
		Err:     cause,
	}
}

// ValidationFailure reports the first block index that broke the chain and which rule it broke.
func ValidationFailure(index int, reason string) error {
	return &LedgerError{
		Code:    ErrCodeValidationFailure,
		Message: fmt.Sprintf("%s at block %d: %s", ErrMsgValidationFailure, index, reason),
	}
}
