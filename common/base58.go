package common

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// NodeIDBytes is the amount of randomness behind a generated node identifier.
const NodeIDBytes = 16

// NewNodeID returns a random base58 identifier used as this node's miner address.
func NewNodeID() (string, error) {
	buf := make([]byte, NodeIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base58.Encode(buf), nil
}
