package buffer

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// PageIndex maps a resident page to the frame holding it.
type PageIndex interface {
	// Lookup returns ErrHashNotFound when the page is not resident.
	Lookup(file File, pageNo int) (int, error)
	// Insert fails with ErrHashTable if the entry exists or the index is full.
	Insert(file File, pageNo int, frameNo int) error
	// Remove returns ErrHashNotFound when there is no entry.
	Remove(file File, pageNo int) error
	Len() int
}

// hashTableSize leaves headroom above the pool size, as the table is never
// expected to hold more than one entry per frame.
func hashTableSize(numBufs int) int {
	return int(float64(numBufs)*1.2)*2/2 + 1
}

func newHashTable(capacity int) *hashTable {
	return &hashTable{
		entries:  xsync.NewMapOf[pageKey, int](xsync.WithPresize(capacity)),
		capacity: capacity,
	}
}

func (h *hashTable) Lookup(file File, pageNo int) (int, error) {
	frameNo, ok := h.entries.Load(pageKey{file: file, pageNo: pageNo})
	if !ok {
		return -1, ErrHashNotFound
	}

	return frameNo, nil
}

func (h *hashTable) Insert(file File, pageNo int, frameNo int) error {
	if h.entries.Size() >= h.capacity {
		return newError(ErrHashTable, "insert page %d: table holds %d entries", pageNo, h.capacity)
	}

	if _, loaded := h.entries.LoadOrStore(pageKey{file: file, pageNo: pageNo}, frameNo); loaded {
		return newError(ErrHashTable, "insert page %d: entry exists", pageNo)
	}

	return nil
}

func (h *hashTable) Remove(file File, pageNo int) error {
	if _, ok := h.entries.LoadAndDelete(pageKey{file: file, pageNo: pageNo}); !ok {
		return ErrHashNotFound
	}

	return nil
}

func (h *hashTable) Len() int {
	return h.entries.Size()
}

type pageKey struct {
	file   File
	pageNo int
}

type hashTable struct {
	entries  *xsync.MapOf[pageKey, int]
	capacity int
}
