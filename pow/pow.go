package pow

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"

	"github.com/mezonai/powledger/exception"
)

// Difficulty is the number of leading hex characters of the digest that must be zero.
const Difficulty = 4

// ValidProof reports whether sha256(decimal(previous) || decimal(candidate)) starts with
// Difficulty zero hex characters.
func ValidProof(previous, candidate uint64) bool {
	var buf [40]byte
	guess := strconv.AppendUint(buf[:0], previous, 10)
	guess = strconv.AppendUint(guess, candidate, 10)
	return meetsDifficulty(sha256.Sum256(guess))
}

func meetsDifficulty(sum [32]byte) bool {
	for i := 0; i < Difficulty; i++ {
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble != 0 {
			return false
		}
	}
	return true
}

// Search scans candidates upward from zero and returns the first one that satisfies
// ValidProof. The result depends only on previous. ctx is checked before every candidate;
// on cancellation Search returns ctx.Err().
//
// About 16^Difficulty candidates are expected per call, with no upper bound.
func Search(ctx context.Context, previous uint64) (uint64, error) {
	for candidate := uint64(0); ; candidate++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}
		if ValidProof(previous, candidate) {
			return candidate, nil
		}
	}
}

type Result struct {
	Proof uint64
	Err   error
}

// SearchAsync runs Search on its own goroutine. The channel yields exactly one Result,
// or is closed empty if the search panicked.
func SearchAsync(ctx context.Context, previous uint64) <-chan Result {
	out := make(chan Result, 1)
	exception.SafeGo(fmt.Sprintf("pow-search-%d", previous), func() {
		defer close(out)
		proof, err := Search(ctx, previous)
		out <- Result{Proof: proof, Err: err}
	})
	return out
}
