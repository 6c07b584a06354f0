package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mezonai/powledger/consensus"
	"github.com/mezonai/powledger/errors"
	"github.com/mezonai/powledger/interfaces"
	"github.com/mezonai/powledger/jsonx"
	"github.com/mezonai/powledger/logx"
	"github.com/mezonai/powledger/monitoring"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPeerTimeout          = 3 * time.Second
	DefaultMaxConcurrentFetches = 8

	chainPath         = "/chain"
	maxChainBodyBytes = 64 << 20
)

type Config struct {
	PeerTimeout          time.Duration
	MaxConcurrentFetches int
	// Scheme used to reach peers, "http" when empty
	Scheme string
}

// ChainClient fetches chain snapshots from peers over HTTP.
type ChainClient struct {
	cfg  Config
	http *http.Client
}

var _ interfaces.ChainFetcher = (*ChainClient)(nil)

func NewChainClient(cfg Config) *ChainClient {
	if cfg.PeerTimeout <= 0 {
		cfg.PeerTimeout = DefaultPeerTimeout
	}
	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = DefaultMaxConcurrentFetches
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "http"
	}
	return &ChainClient{
		cfg:  cfg,
		http: &http.Client{},
	}
}

// FetchChain asks one peer for its chain. Every failure is reported as PeerUnreachable.
func (c *ChainClient) FetchChain(ctx context.Context, peer string) (*ChainResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.PeerTimeout)
	defer cancel()

	url := fmt.Sprintf("%s://%s%s", c.cfg.Scheme, peer, chainPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.PeerUnreachable(peer, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.PeerUnreachable(peer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.PeerUnreachable(peer, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var out ChainResponse
	if err := jsonx.DecodeStrict(io.LimitReader(resp.Body, maxChainBodyBytes), &out); err != nil {
		return nil, errors.PeerUnreachable(peer, fmt.Errorf("decode chain: %w", err))
	}
	if out.Length != len(out.Chain) {
		return nil, errors.PeerUnreachable(peer, fmt.Errorf("length %d does not match %d blocks", out.Length, len(out.Chain)))
	}
	return &out, nil
}

// FetchChains queries all peers concurrently and returns one candidate per peer that
// answered. Unreachable, slow or malformed peers are logged and skipped. Results follow
// the order of peers.
func (c *ChainClient) FetchChains(ctx context.Context, peers []string) []consensus.Candidate {
	// each goroutine owns one slot
	results := make([]*consensus.Candidate, len(peers))

	g := new(errgroup.Group)
	g.SetLimit(c.cfg.MaxConcurrentFetches)
	for i, peer := range peers {
		i, peer := i, peer
		g.Go(func() error {
			resp, err := c.FetchChain(ctx, peer)
			if err != nil {
				monitoring.RecordRejectedCandidate(monitoring.CandidatePeerUnreachable)
				logx.Warn("CLIENT", fmt.Sprintf("Skipping peer %s: %v", peer, err))
				return nil
			}
			results[i] = &consensus.Candidate{Peer: peer, Chain: resp.Chain}
			return nil
		})
	}
	_ = g.Wait()

	candidates := make([]consensus.Candidate, 0, len(peers))
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, *r)
		}
	}
	logx.Info("CLIENT", fmt.Sprintf("Fetched %d/%d peer chains", len(candidates), len(peers)))
	return candidates
}
