package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mezonai/powledger/block"
	"github.com/mezonai/powledger/consensus"
	"github.com/mezonai/powledger/discovery"
	"github.com/mezonai/powledger/interfaces"
	"github.com/mezonai/powledger/logx"
	"github.com/mezonai/powledger/mempool"
	"github.com/mezonai/powledger/monitoring"
	"github.com/mezonai/powledger/pow"
	"github.com/mezonai/powledger/stringutil"
	"github.com/mezonai/powledger/transaction"
)

type Options struct {
	// RejectInvalidAmounts turns on the hardened amount check. Off by default: the
	// baseline ledger buffers any finite amount, negative and zero included.
	RejectInvalidAmounts bool
	// Clock overrides time.Now for block timestamps.
	Clock func() time.Time
}

// Ledger owns the chain, the pending-transaction buffer and the peer set.
//
// writeMu serializes every state change (submit, mine, chain replacement). mu only guards
// the chain and buffer against readers and is held just long enough to commit, so Chain()
// keeps answering while a proof-of-work search runs.
type Ledger struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	chain   []block.Block
	pending *mempool.Mempool
	peers   *discovery.PeerSet
	fetcher interfaces.ChainFetcher
	opts    Options
}

var _ interfaces.Ledger = (*Ledger)(nil)

// NewLedger creates a ledger holding only the genesis block. fetcher may be nil when
// candidate chains are always supplied through ResolveWith.
func NewLedger(fetcher interfaces.ChainFetcher, opts Options) *Ledger {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	l := &Ledger{
		pending: mempool.NewMempool(),
		peers:   discovery.NewPeerSet(),
		fetcher: fetcher,
		opts:    opts,
	}
	l.buildGenesis()
	return l
}

func (l *Ledger) buildGenesis() {
	genesis := block.Genesis()
	l.chain = []block.Block{genesis}
	monitoring.SetChainLength(1)
	monitoring.SetPendingSize(0)
	logx.Info("LEDGER", fmt.Sprintf("Genesis block created, hash %s", stringutil.ShortenHash(genesis.Hash())))
}

// SubmitTransaction buffers a transfer for the next mined block and returns that block's
// index. NaN and infinite amounts are always refused. With
// RejectInvalidAmounts set, zero and negative ones are refused too.
func (l *Ledger) SubmitTransaction(sender, receiver string, amount float64) (uint64, error) {
	check := transaction.CheckFinite
	if l.opts.RejectInvalidAmounts {
		check = transaction.CheckAmount
	}
	if err := check(amount); err != nil {
		monitoring.IncreaseRejectedTxCount()
		logx.Warn("LEDGER", fmt.Sprintf("Rejected tx %s->%s: %v", sender, receiver, err))
		return 0, err
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	l.pending.Add(transaction.NewTransaction(sender, receiver, amount))
	monitoring.IncreaseSubmittedTxCount()
	monitoring.SetPendingSize(l.pending.Len())

	return uint64(l.Length()), nil
}

// Mine appends the reward for minerAddress to the pending transactions, searches a proof
// against the last block and commits the new block. The search runs on its own goroutine
// without holding mu. If ctx is cancelled first, nothing changes and ctx's error is returned.
func (l *Ledger) Mine(ctx context.Context, minerAddress string) (block.Block, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	// chain only changes under writeMu, which we hold
	last := l.chain[len(l.chain)-1]
	index := last.Index + 1

	start := time.Now()
	res, ok := <-pow.SearchAsync(ctx, last.Proof)
	if !ok {
		monitoring.IncreaseAbortedMiningCount()
		return block.Block{}, logx.Errorf("mine block %d: proof search aborted", index)
	}
	if res.Err != nil {
		monitoring.IncreaseAbortedMiningCount()
		logx.Warn("LEDGER", fmt.Sprintf("Mining block %d abandoned: %v", index, res.Err))
		return block.Block{}, fmt.Errorf("mine block %d: %w", index, res.Err)
	}
	monitoring.RecordMiningDuration(time.Since(start))

	l.mu.Lock()
	txs := append(l.pending.Drain(), transaction.NewReward(minerAddress))
	next := block.NewBlock(index, res.Proof, last.Hash(), txs, l.nextTimestamp(last))
	l.chain = append(l.chain, next)
	length := len(l.chain)
	l.mu.Unlock()

	monitoring.IncreaseMinedBlockCount()
	monitoring.RecordTxInBlock(len(txs))
	monitoring.SetChainLength(length)
	monitoring.SetPendingSize(0)
	logx.Info("LEDGER", fmt.Sprintf("Mined block %d proof=%d prev=%s txs=%d in %v",
		index, res.Proof, stringutil.ShortenHash(next.PreviousHash), len(txs), time.Since(start)))

	return next.Clone(), nil
}

// timestamps must strictly increase even if the clock stalls or steps back
func (l *Ledger) nextTimestamp(last block.Block) int64 {
	ts := l.opts.Clock().UnixNano()
	if ts <= last.Timestamp {
		ts = last.Timestamp + 1
	}
	return ts
}

// Chain returns a deep copy of the current chain.
func (l *Ledger) Chain() []block.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return block.CloneChain(l.chain)
}

func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chain)
}

func (l *Ledger) LastBlock() block.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain[len(l.chain)-1].Clone()
}

// Pending returns the buffered transactions in submission order.
func (l *Ledger) Pending() []transaction.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pending.Snapshot()
}

// RegisterPeer stores the normalized form of address and returns it.
func (l *Ledger) RegisterPeer(address string) (string, error) {
	key, added, err := l.peers.Add(address)
	if err != nil {
		logx.Warn("LEDGER", fmt.Sprintf("Rejected peer address %q: %v", address, err))
		return "", err
	}
	if added {
		monitoring.SetPeerCount(l.peers.Len())
		logx.Info("LEDGER", fmt.Sprintf("Registered peer %s", key))
	}
	return key, nil
}

// RegisterPeers registers every address or none of them: all addresses are normalized
// before the peer set is touched.
func (l *Ledger) RegisterPeers(addresses []string) ([]string, error) {
	for _, a := range addresses {
		if _, err := discovery.NormalizeAddress(a); err != nil {
			logx.Warn("LEDGER", fmt.Sprintf("Rejected peer batch, bad address %q: %v", a, err))
			return nil, err
		}
	}
	keys := make([]string, 0, len(addresses))
	for _, a := range addresses {
		key, err := l.RegisterPeer(a)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (l *Ledger) Peers() []string {
	return l.peers.List()
}

// Resolve fetches chains from every registered peer and hands them to ResolveWith.
// Unreachable peers are skipped by the fetcher; only ctx cancellation is an error.
func (l *Ledger) Resolve(ctx context.Context) (bool, error) {
	peers := l.Peers()
	var candidates []consensus.Candidate
	if len(peers) > 0 {
		if l.fetcher == nil {
			return false, fmt.Errorf("resolve: %d peers registered but no chain fetcher configured", len(peers))
		}
		candidates = l.fetcher.FetchChains(ctx, peers)
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("resolve: %w", err)
	}
	return l.ResolveWith(candidates), nil
}

// ResolveWith replaces the local chain with the longest valid candidate strictly longer than
// it. The decision and the swap happen under the writer lock. Pending transactions are kept.
func (l *Ledger) ResolveWith(candidates []consensus.Candidate) bool {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	res := consensus.Resolve(l.chain, candidates)
	if !res.Replaced {
		logx.Info("LEDGER", fmt.Sprintf("Local chain of length %d is authoritative (%d candidates)", len(l.chain), len(candidates)))
		return false
	}

	l.mu.Lock()
	previous := len(l.chain)
	l.chain = res.Chain
	l.mu.Unlock()

	monitoring.SetChainLength(len(res.Chain))
	logx.Info("LEDGER", fmt.Sprintf("Chain replaced by %s: length %d -> %d", res.Peer, previous, len(res.Chain)))
	return true
}
