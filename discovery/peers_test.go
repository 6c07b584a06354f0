package discovery

import (
	"testing"

	"github.com/mezonai/powledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare host port", input: "192.168.0.5:5000", want: "192.168.0.5:5000"},
		{name: "http url", input: "http://192.168.0.5:5000", want: "192.168.0.5:5000"},
		{name: "url with path", input: "http://192.168.0.5:5000/chain", want: "192.168.0.5:5000"},
		{name: "https url", input: "https://node.example.com:8443", want: "node.example.com:8443"},
		{name: "named bare host", input: "localhost:5001", want: "localhost:5001"},
		{name: "surrounding space", input: "  10.0.0.1:80 ", want: "10.0.0.1:80"},
		{name: "trailing slash", input: "10.0.0.1:80/", want: "10.0.0.1:80"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "scheme only", input: "http://", wantErr: true},
		{name: "bare with path", input: "10.0.0.1:80/chain", wantErr: true},
		{name: "path only", input: "/chain", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeerSetCollapsesEquivalentForms(t *testing.T) {
	set := NewPeerSet()

	key, added, err := set.Add("192.168.0.5:5000")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "192.168.0.5:5000", key)

	key, added, err = set.Add("http://192.168.0.5:5000")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "192.168.0.5:5000", key)

	assert.Equal(t, 1, set.Len())
	assert.Equal(t, []string{"192.168.0.5:5000"}, set.List())
	assert.True(t, set.Contains("192.168.0.5:5000"))
}

func TestPeerSetRejectsInvalid(t *testing.T) {
	set := NewPeerSet()
	_, _, err := set.Add("http://")
	assert.ErrorIs(t, err, errors.ErrInvalidAddress)
	assert.Equal(t, 0, set.Len())
}

func TestPeerSetListIsSorted(t *testing.T) {
	set := NewPeerSet()
	for _, a := range []string{"c:3", "a:1", "http://b:2"} {
		_, _, err := set.Add(a)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a:1", "b:2", "c:3"}, set.List())
}
