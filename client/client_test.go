package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mezonai/powledger/block"
	"github.com/mezonai/powledger/chaintest"
	"github.com/mezonai/powledger/errors"
	"github.com/mezonai/powledger/jsonx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peerAddr(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func chainServer(t *testing.T, chain []block.Block) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = jsonx.NewEncoder(w).Encode(ChainResponse{Chain: chain, Length: len(chain)})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func rawServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchChainDecodesPeerChain(t *testing.T) {
	chain := chaintest.Build(t, 3, "peer")
	srv := chainServer(t, chain)

	c := NewChainClient(Config{})
	resp, err := c.FetchChain(context.Background(), peerAddr(srv))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Length)
	require.Len(t, resp.Chain, 3)
	for i := range chain {
		assert.True(t, chain[i].Equal(resp.Chain[i]))
	}
}

func TestFetchChainFailuresArePeerUnreachable(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedAddr := peerAddr(closed)
	closed.Close()

	tests := []struct {
		name string
		peer string
	}{
		{"non-success status", peerAddr(rawServer(t, http.StatusInternalServerError, "boom"))},
		{"malformed body", peerAddr(rawServer(t, http.StatusOK, "{not json"))},
		{"length mismatch", peerAddr(rawServer(t, http.StatusOK, `{"chain":[],"length":4}`))},
		{"unknown field", peerAddr(rawServer(t, http.StatusOK, `{"chain":[],"length":0,"extra":1}`))},
		{"timeout", peerAddr(slow)},
		{"connection refused", closedAddr},
	}

	c := NewChainClient(Config{PeerTimeout: 100 * time.Millisecond})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.FetchChain(context.Background(), tt.peer)
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrPeerUnreachable)
		})
	}
}

func TestFetchChainsSkipsBadPeers(t *testing.T) {
	good := chaintest.Build(t, 4, "good")
	goodSrv := chainServer(t, good)
	otherSrv := chainServer(t, chaintest.Build(t, 2, "other"))
	badSrv := rawServer(t, http.StatusNotFound, "")

	c := NewChainClient(Config{PeerTimeout: time.Second, MaxConcurrentFetches: 2})
	peers := []string{peerAddr(badSrv), peerAddr(goodSrv), peerAddr(otherSrv)}

	candidates := c.FetchChains(context.Background(), peers)
	require.Len(t, candidates, 2)
	assert.Equal(t, peerAddr(goodSrv), candidates[0].Peer)
	assert.Len(t, candidates[0].Chain, 4)
	assert.Equal(t, peerAddr(otherSrv), candidates[1].Peer)
	assert.Len(t, candidates[1].Chain, 2)
}

func TestFetchChainsEmpty(t *testing.T) {
	c := NewChainClient(Config{})
	assert.Empty(t, c.FetchChains(context.Background(), nil))
}
