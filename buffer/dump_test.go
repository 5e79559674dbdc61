package buffer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	file := newMemFile("test.db")
	pageNos := file.seed(2)
	bufferMgr := NewBufferpoolManager(3)

	_, err := bufferMgr.ReadPage(file, pageNos[0])
	require.NoError(t, err)
	_, err = bufferMgr.ReadPage(file, pageNos[1])
	require.NoError(t, err)
	require.NoError(t, bufferMgr.UnpinPage(file, pageNos[1], true))

	t.Run("one line per frame", func(t *testing.T) {
		var out bytes.Buffer
		bufferMgr.Dump(&out)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "buffer pool: 3 frames, clock hand at 1", lines[0])
		assert.Equal(t, "0\tpinCnt: 1\tvalid\ttest.db:0\tdirty: false\tref: true", lines[1])
		assert.Equal(t, "1\tpinCnt: 0\tvalid\ttest.db:1\tdirty: true\tref: true", lines[2])
		assert.Equal(t, "2\tpinCnt: 0", lines[3])
	})

	t.Run("dump has no side effects", func(t *testing.T) {
		before := bufferMgr.Stats()
		bufferMgr.Dump(&bytes.Buffer{})

		assert.Equal(t, before, bufferMgr.Stats())
		checkInvariants(t, bufferMgr)
	})

	t.Run("stats count valid pinned and dirty frames", func(t *testing.T) {
		assert.Equal(t, BufferStats{Frames: 3, Valid: 2, Pinned: 1, Dirty: 1}, bufferMgr.Stats())
	})
}
