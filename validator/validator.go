package validator

import (
	"github.com/mezonai/powledger/block"
	"github.com/mezonai/powledger/errors"
	"github.com/mezonai/powledger/pow"
)

const (
	ReasonPreviousHash = "previous_hash does not match hash of preceding block"
	ReasonProof        = "proof does not satisfy difficulty against preceding proof"
	ReasonTimestamp    = "timestamp is not after preceding block"
)

// ValidateChain walks the chain from index 1 and returns a ValidationFailure for the first
// block that breaks hash linkage, proof-of-work or timestamp ordering, checked in that order.
// Chains of length 0 or 1 are valid; the genesis block itself is not re-verified.
// ValidateChain never mutates its input and is safe for concurrent use.
func ValidateChain(chain []block.Block) error {
	for i := 1; i < len(chain); i++ {
		prev, cur := chain[i-1], chain[i]

		if cur.PreviousHash != prev.Hash() {
			return errors.ValidationFailure(i, ReasonPreviousHash)
		}
		if !pow.ValidProof(prev.Proof, cur.Proof) {
			return errors.ValidationFailure(i, ReasonProof)
		}
		if cur.Timestamp <= prev.Timestamp {
			return errors.ValidationFailure(i, ReasonTimestamp)
		}
	}
	return nil
}

func IsValid(chain []block.Block) bool {
	return ValidateChain(chain) == nil
}
