package mempool

import (
	"sync"

	"github.com/mezonai/powledger/transaction"
)

// Mempool is the ordered pending-transaction buffer. It is owned by the Ledger, which
// empties it into exactly one block per successful mine.
type Mempool struct {
	mu  sync.Mutex
	txs []transaction.Transaction
}

// NewMempool creates a new, empty mempool.
func NewMempool() *Mempool {
	return &Mempool{
		txs: make([]transaction.Transaction, 0),
	}
}

// Add pushes a transaction to the back of the buffer.
func (m *Mempool) Add(tx transaction.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, tx)
}

// Len returns the number of transactions in the mempool.
func (m *Mempool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

// Snapshot returns a copy of the buffered transactions in insertion order.
func (m *Mempool) Snapshot() []transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]transaction.Transaction, len(m.txs))
	copy(out, m.txs)
	return out
}

// Drain returns every buffered transaction and leaves the mempool empty.
func (m *Mempool) Drain() []transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.txs
	m.txs = make([]transaction.Transaction, 0)
	return out
}
