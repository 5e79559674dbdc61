package buffer

import (
	"errors"
	"fmt"

	"github.com/jpsinha1/minirel/util"
)

var (
	ErrBufferExceeded = errors.New("buffer pool exceeded, all frames pinned")
	ErrPageNotPinned  = errors.New("page is not pinned")
	ErrPagePinned     = errors.New("page is pinned")
	ErrBadBuffer      = errors.New("buffer frame in inconsistent state")
	ErrHashTable      = errors.New("page table error")
	ErrHashNotFound   = errors.New("page not found in page table")
	ErrPinLeak        = errors.New("pages still pinned at teardown")
)

func newError(err error, format string, args ...any) error {
	return util.NewError(err, fmt.Sprintf(format, args...))
}

// indexError reports a page table failure. Misses are folded into
// ErrHashTable because the caller expected the entry to be there.
func indexError(err error, format string, args ...any) error {
	if !errors.Is(err, ErrHashTable) {
		err = fmt.Errorf("%w: %w", ErrHashTable, err)
	}
	return util.NewError(err, fmt.Sprintf(format, args...))
}
