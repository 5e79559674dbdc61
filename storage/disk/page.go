package disk

import "errors"

const (
	PAGE_SIZE             = 4096
	DEFAULT_PAGE_CAPACITY = 16
	INVALID_PAGE_ID       = -1
)

var (
	ErrPageNotAllocated = errors.New("page is not allocated")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrClosed           = errors.New("file is closed")
)

// Page is an opaque fixed-size block. Nothing below the access methods
// interprets its contents.
type Page [PAGE_SIZE]byte
