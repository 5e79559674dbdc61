package buffer

import (
	"fmt"
	"io"
)

type BufferStats struct {
	Frames int
	Valid  int
	Pinned int
	Dirty  int
}

// Dump writes one line per frame: its pin count, and for resident pages the
// owner and flags.
func (b *BufferpoolManager) Dump(w io.Writer) {
	fmt.Fprintf(w, "buffer pool: %d frames, clock hand at %d\n", b.size, b.clockHand)
	for i := range b.frames {
		desc := &b.frames[i]
		fmt.Fprintf(w, "%d\tpinCnt: %d", i, desc.pinCnt)
		if desc.valid {
			fmt.Fprintf(w, "\tvalid\t%s:%d\tdirty: %t\tref: %t", desc.file.Name(), desc.pageNo, desc.dirty, desc.refbit)
		}
		fmt.Fprintln(w)
	}
}

func (b *BufferpoolManager) Stats() BufferStats {
	stats := BufferStats{Frames: b.size}

	for i := range b.frames {
		desc := &b.frames[i]
		if !desc.valid {
			continue
		}

		stats.Valid++
		if desc.pinCnt > 0 {
			stats.Pinned++
		}
		if desc.dirty {
			stats.Dirty++
		}
	}

	return stats
}
