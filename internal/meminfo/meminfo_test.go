package meminfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResidentSetSize(t *testing.T) {
	rss := ResidentSetSize()

	// A running Go process is resident with at least a few hundred KiB.
	assert.Greater(t, rss, uint64(100*1024))

	// Sanity upper bound: below 1 TiB.
	assert.Less(t, rss, uint64(1)<<40)
}
