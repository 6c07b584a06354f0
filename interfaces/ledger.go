package interfaces

import (
	"context"

	"github.com/mezonai/powledger/block"
	"github.com/mezonai/powledger/transaction"
)

// Ledger interface defines the operations the transport layer calls into
type Ledger interface {
	// SubmitTransaction buffers a transfer and returns the index of the block that will hold it
	SubmitTransaction(sender, receiver string, amount float64) (uint64, error)
	// Mine assembles, proves and appends the next block, paying the reward to minerAddress
	Mine(ctx context.Context, minerAddress string) (block.Block, error)
	// Chain returns a consistent snapshot of the local chain
	Chain() []block.Block
	// Pending returns a snapshot of the pending-transaction buffer
	Pending() []transaction.Transaction
	// RegisterPeer normalizes and stores a peer address, returning the stored key
	RegisterPeer(address string) (string, error)
	// RegisterPeers registers all addresses or, if any is invalid, none of them
	RegisterPeers(addresses []string) ([]string, error)
	// Peers returns the registered peer keys in ascending order
	Peers() []string
	// Resolve fetches peer chains and adopts the longest valid one, reporting replacement
	Resolve(ctx context.Context) (bool, error)
}
