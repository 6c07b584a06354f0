package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/mezonai/powledger/jsonx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerErrorMatchesSentinelByCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"invalid address", InvalidAddress("::"), ErrInvalidAddress},
		{"invalid amount", InvalidAmount(-1), ErrInvalidAmount},
		{"peer unreachable", PeerUnreachable("10.0.0.1:5000", io.EOF), ErrPeerUnreachable},
		{"validation failure", ValidationFailure(3, "bad proof"), ErrValidationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}

	assert.False(t, stderrors.Is(InvalidAddress("x"), ErrInvalidAmount))
}

func TestPeerUnreachableUnwrapsCause(t *testing.T) {
	err := PeerUnreachable("10.0.0.1:5000", io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLedgerErrorRendersJSON(t *testing.T) {
	err := ValidationFailure(2, "timestamp not increasing")

	var decoded LedgerError
	require.NoError(t, jsonx.Unmarshal([]byte(err.Error()), &decoded))
	assert.Equal(t, ErrCodeValidationFailure, decoded.Code)
	assert.Contains(t, decoded.Message, "block 2")
	assert.Contains(t, decoded.Message, "timestamp not increasing")
}
