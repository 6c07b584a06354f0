// Package chaintest builds valid chains for tests without going through a Ledger.
package chaintest

import (
	"context"
	"sync"
	"testing"

	"github.com/mezonai/powledger/block"
	"github.com/mezonai/powledger/pow"
	"github.com/mezonai/powledger/transaction"
)

// BaseTimestamp is the timestamp of block 1; block i gets BaseTimestamp + i - 1.
const BaseTimestamp int64 = 1_700_000_000_000_000_000

var proofs sync.Map // previous proof -> next proof

// NextProof is pow.Search with a process-wide memo, since every chain walks the same proofs.
func NextProof(tb testing.TB, previous uint64) uint64 {
	tb.Helper()
	if v, ok := proofs.Load(previous); ok {
		return v.(uint64)
	}
	proof, err := pow.Search(context.Background(), previous)
	if err != nil {
		tb.Fatalf("proof search from %d: %v", previous, err)
	}
	proofs.Store(previous, proof)
	return proof
}

// Build returns a valid chain of the given length, genesis included. Every mined block pays
// the reward to miner, so different miners yield different chains of equal length.
func Build(tb testing.TB, length int, miner string) []block.Block {
	tb.Helper()
	if length < 1 {
		return nil
	}
	chain := []block.Block{block.Genesis()}
	for i := 1; i < length; i++ {
		chain = Extend(tb, chain, miner)
	}
	return chain
}

// Extend appends one valid block to a copy of chain.
func Extend(tb testing.TB, chain []block.Block, miner string) []block.Block {
	tb.Helper()
	last := chain[len(chain)-1]
	next := block.NewBlock(
		last.Index+1,
		NextProof(tb, last.Proof),
		last.Hash(),
		[]transaction.Transaction{transaction.NewReward(miner)},
		BaseTimestamp+int64(last.Index),
	)
	out := block.CloneChain(chain)
	return append(out, next)
}
