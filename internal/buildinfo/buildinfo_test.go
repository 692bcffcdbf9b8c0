package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortPrefersVersion(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	Version, Commit = "v1.2.3", "0123456789abcdef"
	assert.Equal(t, "v1.2.3", Short())

	Version = "dev"
	assert.Equal(t, "0123456789ab", Short())
	assert.Equal(t, "0123456789abcdef", Get().Commit)
}
