package common

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeID(t *testing.T) {
	a, err := NewNodeID()
	require.NoError(t, err)
	b, err := NewNodeID()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	decoded, err := base58.Decode(a)
	require.NoError(t, err)
	assert.Len(t, decoded, NodeIDBytes)
}
