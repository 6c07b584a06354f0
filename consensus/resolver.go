package consensus

import (
	"fmt"
	"sort"

	"github.com/mezonai/powledger/block"
	"github.com/mezonai/powledger/logx"
	"github.com/mezonai/powledger/monitoring"
	"github.com/mezonai/powledger/validator"
)

// Candidate is a chain snapshot offered by one peer.
type Candidate struct {
	Peer  string
	Chain []block.Block
}

type Result struct {
	Chain    []block.Block // local chain when not replaced
	Replaced bool
	Peer     string // source of the adopted chain, empty when not replaced
}

// Resolve applies the longest-valid-chain rule. A candidate replaces the running best only
// when it is strictly longer and passes validation, so equal-length candidates never win over
// the local chain. Candidates are scanned in ascending Peer order; among equally long winners
// the first in that order is kept. Neither local nor candidates are modified.
func Resolve(local []block.Block, candidates []Candidate) Result {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Peer < ordered[j].Peer
	})

	bestLength := len(local)
	var best *Candidate

	for i := range ordered {
		c := &ordered[i]
		if len(c.Chain) <= bestLength {
			monitoring.RecordRejectedCandidate(monitoring.CandidateNotLonger)
			continue
		}
		if err := validator.ValidateChain(c.Chain); err != nil {
			monitoring.RecordRejectedCandidate(monitoring.CandidateInvalid)
			logx.Warn("CONSENSUS", fmt.Sprintf("Discarding chain of length %d from %s: %v", len(c.Chain), c.Peer, err))
			continue
		}
		bestLength = len(c.Chain)
		best = c
	}

	if best == nil {
		monitoring.RecordResolve(monitoring.ResolveAuthoritative)
		return Result{Chain: local}
	}

	monitoring.RecordResolve(monitoring.ResolveReplaced)
	logx.Info("CONSENSUS", fmt.Sprintf("Adopting chain of length %d from %s (local length %d)", bestLength, best.Peer, len(local)))
	return Result{
		Chain:    block.CloneChain(best.Chain),
		Replaced: true,
		Peer:     best.Peer,
	}
}
