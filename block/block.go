package block

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/mezonai/powledger/transaction"
)

// GenesisPreviousHash is the sentinel previous hash carried only by the genesis block.
const GenesisPreviousHash = "0"

// Block is one link of the chain. A Block is a value: once built it is never mutated,
// and NewBlock/Clone never share the transaction slice with the caller.
type Block struct {
	Index        uint64                    `json:"index"`
	Proof        uint64                    `json:"proof"`
	PreviousHash string                    `json:"previous_hash"`
	Transactions []transaction.Transaction `json:"transactions"`
	Timestamp    int64                     `json:"timestamp"` // unix nanoseconds
}

func NewBlock(
	index uint64,
	proof uint64,
	previousHash string,
	txs []transaction.Transaction,
	timestamp int64,
) Block {
	return Block{
		Index:        index,
		Proof:        proof,
		PreviousHash: previousHash,
		Transactions: copyTxs(txs),
		Timestamp:    timestamp,
	}
}

// Genesis returns the fixed first block. Its timestamp is pinned to zero so every node
// starts from a byte-identical genesis.
func Genesis() Block {
	return NewBlock(0, 0, GenesisPreviousHash, nil, 0)
}

func (b Block) IsGenesis() bool {
	return b.Index == 0 && b.Proof == 0 && b.PreviousHash == GenesisPreviousHash && len(b.Transactions) == 0
}

// Hash returns the canonical SHA-256 digest of the block in lowercase hex.
//
// Encoding, all integers big-endian:
//
//	index u64 | proof u64 | len u64 + previous_hash | tx count u64 |
//	per tx: len u64 + sender | len u64 + receiver | amount float64 bits u64 |
//	timestamp i64
func (b Block) Hash() string {
	h := sha256.New()
	buf := make([]byte, 8)
	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf, v)
		h.Write(buf)
	}
	writeString := func(s string) {
		writeUint(uint64(len(s)))
		h.Write([]byte(s))
	}

	writeUint(b.Index)
	writeUint(b.Proof)
	writeString(b.PreviousHash)
	writeUint(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		writeString(tx.Sender)
		writeString(tx.Receiver)
		writeUint(math.Float64bits(tx.Amount))
	}
	writeUint(uint64(b.Timestamp))

	return hex.EncodeToString(h.Sum(nil))
}

// Equal compares blocks by index and canonical hash.
func (b Block) Equal(other Block) bool {
	return b.Index == other.Index && b.Hash() == other.Hash()
}

func (b Block) Clone() Block {
	b.Transactions = copyTxs(b.Transactions)
	return b
}

func (b Block) String() string {
	return fmt.Sprintf("%d - %d - %s - %v - %d", b.Index, b.Proof, b.PreviousHash, b.Transactions, b.Timestamp)
}

// CloneChain deep-copies a chain so the result shares no memory with the input.
func CloneChain(chain []Block) []Block {
	out := make([]Block, len(chain))
	for i, b := range chain {
		out[i] = b.Clone()
	}
	return out
}

// Always non-nil so an empty block serializes as [] rather than null.
func copyTxs(txs []transaction.Transaction) []transaction.Transaction {
	out := make([]transaction.Transaction, len(txs))
	copy(out, txs)
	return out
}
