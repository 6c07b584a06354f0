package client

import "github.com/mezonai/powledger/block"

// ChainResponse is the body of GET /chain on every node.
type ChainResponse struct {
	Chain  []block.Block `json:"chain"`
	Length int           `json:"length"`
}
