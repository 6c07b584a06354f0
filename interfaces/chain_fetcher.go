package interfaces

import (
	"context"

	"github.com/mezonai/powledger/consensus"
)

// ChainFetcher retrieves chain snapshots from peers. Peers that cannot be reached or
// return malformed data are left out of the result rather than failing the call.
type ChainFetcher interface {
	FetchChains(ctx context.Context, peers []string) []consensus.Candidate
}
