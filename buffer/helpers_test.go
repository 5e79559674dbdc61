package buffer

import (
	"fmt"
	"testing"

	"github.com/jpsinha1/minirel/storage/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFile is an in-memory File that records every call made to it.
type memFile struct {
	name     string
	pages    map[int]*disk.Page
	next     int
	reads    map[int]int
	writes   map[int][]disk.Page
	disposed []int

	readErr    error
	writeErr   error
	allocErr   error
	disposeErr error
}

func newMemFile(name string) *memFile {
	return &memFile{
		name:   name,
		pages:  map[int]*disk.Page{},
		reads:  map[int]int{},
		writes: map[int][]disk.Page{},
	}
}

func (f *memFile) ReadPage(pageNo int, dst *disk.Page) error {
	if f.readErr != nil {
		return f.readErr
	}

	page, ok := f.pages[pageNo]
	if !ok {
		return disk.ErrPageNotAllocated
	}

	f.reads[pageNo]++
	*dst = *page
	return nil
}

func (f *memFile) WritePage(pageNo int, src *disk.Page) error {
	if f.writeErr != nil {
		return f.writeErr
	}

	page, ok := f.pages[pageNo]
	if !ok {
		return disk.ErrPageNotAllocated
	}

	*page = *src
	f.writes[pageNo] = append(f.writes[pageNo], *src)
	return nil
}

func (f *memFile) AllocatePage() (int, error) {
	if f.allocErr != nil {
		return disk.INVALID_PAGE_ID, f.allocErr
	}

	pageNo := f.next
	f.next++
	f.pages[pageNo] = &disk.Page{}
	return pageNo, nil
}

func (f *memFile) DisposePage(pageNo int) error {
	if f.disposeErr != nil {
		return f.disposeErr
	}

	if _, ok := f.pages[pageNo]; !ok {
		return disk.ErrPageNotAllocated
	}

	delete(f.pages, pageNo)
	f.disposed = append(f.disposed, pageNo)
	return nil
}

func (f *memFile) Name() string {
	return f.name
}

// seed allocates n pages directly in the file, each holding its own name.
func (f *memFile) seed(n int) []int {
	pageNos := make([]int, n)
	for i := range pageNos {
		pageNo, _ := f.AllocatePage()
		copy(f.pages[pageNo][:], pageContent(f.name, pageNo))
		pageNos[i] = pageNo
	}

	return pageNos
}

func pageContent(name string, pageNo int) string {
	return fmt.Sprintf("%s page %d", name, pageNo)
}

// failingIndex wraps the real hash table and fails on demand.
type failingIndex struct {
	PageIndex
	insertErr error
	removeErr error
}

func (i *failingIndex) Insert(file File, pageNo int, frameNo int) error {
	if i.insertErr != nil {
		return i.insertErr
	}
	return i.PageIndex.Insert(file, pageNo, frameNo)
}

func (i *failingIndex) Remove(file File, pageNo int) error {
	if i.removeErr != nil {
		return i.removeErr
	}
	return i.PageIndex.Remove(file, pageNo)
}

// checkInvariants asserts that valid frames and page table entries match one
// to one and that cleared frames carry no state.
func checkInvariants(t *testing.T, b *BufferpoolManager) {
	t.Helper()

	valid := 0
	for i := range b.frames {
		desc := &b.frames[i]
		assert.Equal(t, i, desc.frameNo)
		assert.GreaterOrEqual(t, desc.pinCnt, 0, "frame %d", i)

		if !desc.valid {
			assert.Nil(t, desc.file, "cleared frame %d has an owner", i)
			assert.Zero(t, desc.pinCnt, "cleared frame %d is pinned", i)
			assert.False(t, desc.dirty, "cleared frame %d is dirty", i)
			continue
		}

		valid++
		frameNo, err := b.pageTable.Lookup(desc.file, desc.pageNo)
		if assert.NoError(t, err, "frame %d has no page table entry", i) {
			assert.Equal(t, i, frameNo)
		}
	}

	assert.Equal(t, valid, b.pageTable.Len(), "page table entries without a frame")
}

func frameOfPage(t *testing.T, b *BufferpoolManager, file File, pageNo int) int {
	t.Helper()

	frameNo, err := b.pageTable.Lookup(file, pageNo)
	require.NoError(t, err, "page %d is not resident", pageNo)
	return frameNo
}

func isResident(b *BufferpoolManager, file File, pageNo int) bool {
	_, err := b.pageTable.Lookup(file, pageNo)
	return err == nil
}

func contentOf(page *disk.Page) string {
	end := 0
	for end < len(page) && page[end] != 0 {
		end++
	}
	return string(page[:end])
}

// writeContent replaces the whole page with s followed by zeroes.
func writeContent(page *disk.Page, s string) {
	*page = disk.Page{}
	copy(page[:], s)
}
