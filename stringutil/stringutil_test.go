package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortenHash(t *testing.T) {
	assert.Equal(t, "d61afab7..a8e21883", ShortenHash("d61afab74ab58cd721bf1b5293d08d16e16a9df72134748ba18bca7ba8e21883"))
	assert.Equal(t, "0", ShortenHash("0"))
	assert.Equal(t, "0123456789abcdef", ShortenHash("0123456789abcdef"))
}
