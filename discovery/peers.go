package discovery

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/mezonai/powledger/errors"
)

// NormalizeAddress turns a peer address into the canonical "host:port" key.
//
// A URL with a network location ("http://192.168.0.5:5000/x") yields its host part.
// Anything without one is taken as a bare "192.168.0.5:5000" and kept as given.
// Input with neither form fails with InvalidAddress.
func NormalizeAddress(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.InvalidAddress(raw)
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return "", errors.InvalidAddress(raw)
		}
		return u.Host, nil
	}

	// url.Parse reads "host:port" as scheme "host", so bare forms are parsed as a
	// network-path reference ("//host:port") to recover the network location.
	u, err := url.Parse("//" + strings.TrimSuffix(s, "/"))
	if err != nil || u.Host == "" {
		return "", errors.InvalidAddress(raw)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", errors.InvalidAddress(raw)
	}
	return u.Host, nil
}

// PeerSet is a deduplicated set of normalized peer keys.
type PeerSet struct {
	mu    sync.RWMutex
	peers map[string]struct{}
}

func NewPeerSet() *PeerSet {
	return &PeerSet{
		peers: make(map[string]struct{}),
	}
}

// Add normalizes address and stores it. It returns the stored key and whether it was new.
func (s *PeerSet) Add(address string) (string, bool, error) {
	key, err := NormalizeAddress(address)
	if err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.peers[key]; ok {
		return key, false, nil
	}
	s.peers[key] = struct{}{}
	return key, true, nil
}

func (s *PeerSet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.peers[key]
	return ok
}

func (s *PeerSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}

// List returns the peer keys in ascending order.
func (s *PeerSet) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.peers))
	for p := range s.peers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
