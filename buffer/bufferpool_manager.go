package buffer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpsinha1/minirel/storage/disk"
)

// File is the page-oriented file the buffer pool reads from and writes back
// to. It is half of the page table key, so implementations must be
// comparable; pointer types are.
type File interface {
	ReadPage(pageNo int, dst *disk.Page) error
	WritePage(pageNo int, src *disk.Page) error
	AllocatePage() (int, error)
	DisposePage(pageNo int) error
	Name() string
}

// NewBufferpoolManager creates a pool of size frames. The manager is not safe
// for concurrent use; callers sharing one must serialize access to it.
func NewBufferpoolManager(size int, opts ...Option) *BufferpoolManager {
	if size <= 0 {
		panic(fmt.Sprintf("buffer pool size must be positive, got %d", size))
	}

	cfg := newConfig(size, opts)
	frames := make([]frameDesc, size)
	for i := range frames {
		frames[i].frameNo = i
		frames[i].clear()
	}

	return &BufferpoolManager{
		size:       size,
		frames:     frames,
		pool:       make([]disk.Page, size),
		pageTable:  cfg.pageTable,
		clockHand:  size - 1,
		sweepLimit: cfg.sweepLimit,
		logger:     cfg.logger,
	}
}

// ReadPage returns the page pinned. Every successful call must be matched by
// an UnpinPage; the returned page must not be used after that.
func (b *BufferpoolManager) ReadPage(file File, pageNo int) (*disk.Page, error) {
	frameNo, err := b.pageTable.Lookup(file, pageNo)
	if err == nil {
		desc := b.frameOf(frameNo, file, pageNo)
		desc.pin()
		b.logger.Debug("page hit", "file", file.Name(), "page", pageNo, "frame", frameNo)

		return &b.pool[frameNo], nil
	}
	if !errors.Is(err, ErrHashNotFound) {
		return nil, indexError(err, "lookup page %d of %s", pageNo, file.Name())
	}

	b.logger.Debug("page miss", "file", file.Name(), "page", pageNo)

	frameNo, err = b.allocBuf()
	if err != nil {
		return nil, err
	}

	if err := file.ReadPage(pageNo, &b.pool[frameNo]); err != nil {
		return nil, err
	}

	if err := b.pageTable.Insert(file, pageNo, frameNo); err != nil {
		return nil, indexError(err, "register page %d of %s", pageNo, file.Name())
	}

	b.frames[frameNo].set(file, pageNo)
	return &b.pool[frameNo], nil
}

// UnpinPage releases one pin. A dirty page stays dirty until it is written
// back, whatever later unpins say.
func (b *BufferpoolManager) UnpinPage(file File, pageNo int, dirty bool) error {
	frameNo, err := b.pageTable.Lookup(file, pageNo)
	if errors.Is(err, ErrHashNotFound) {
		return newError(ErrPageNotPinned, "unpin page %d of %s: not resident", pageNo, file.Name())
	}
	if err != nil {
		return indexError(err, "lookup page %d of %s", pageNo, file.Name())
	}

	desc := b.frameOf(frameNo, file, pageNo)
	if desc.pinCnt == 0 {
		return newError(ErrPageNotPinned, "unpin page %d of %s", pageNo, file.Name())
	}

	desc.unpin(dirty)
	return nil
}

// AllocPage allocates a page in file and returns it pinned and zeroed. The
// caller should unpin it dirty once it has written to it.
func (b *BufferpoolManager) AllocPage(file File) (int, *disk.Page, error) {
	pageNo, err := file.AllocatePage()
	if err != nil {
		return disk.INVALID_PAGE_ID, nil, err
	}

	frameNo, err := b.allocBuf()
	if err != nil {
		return disk.INVALID_PAGE_ID, nil, err
	}

	if err := b.pageTable.Insert(file, pageNo, frameNo); err != nil {
		return disk.INVALID_PAGE_ID, nil, indexError(err, "register page %d of %s", pageNo, file.Name())
	}

	b.pool[frameNo] = disk.Page{}
	b.frames[frameNo].set(file, pageNo)

	return pageNo, &b.pool[frameNo], nil
}

// DisposePage drops the page from the pool without writing it back and then
// deallocates it in file. The deallocation happens whether or not the page
// was resident. A resident page whose page table entry cannot be removed
// stays resident.
func (b *BufferpoolManager) DisposePage(file File, pageNo int) error {
	var indexErr error

	frameNo, err := b.pageTable.Lookup(file, pageNo)
	switch {
	case err == nil:
		desc := b.frameOf(frameNo, file, pageNo)
		if err := b.pageTable.Remove(file, pageNo); err != nil {
			indexErr = indexError(err, "dispose page %d of %s", pageNo, file.Name())
		} else {
			desc.clear()
		}
	case !errors.Is(err, ErrHashNotFound):
		indexErr = indexError(err, "lookup page %d of %s", pageNo, file.Name())
	}

	if err := file.DisposePage(pageNo); err != nil {
		if indexErr == nil {
			return err
		}
		return errors.Join(indexErr, err)
	}

	return indexErr
}

// FlushFile writes back every dirty page of file and drops all of its pages
// from the pool. It stops at the first pinned page; frames visited before
// that stay flushed.
func (b *BufferpoolManager) FlushFile(file File) error {
	if file == nil {
		return newError(ErrBadBuffer, "flush: nil file")
	}

	for i := range b.frames {
		desc := &b.frames[i]
		if desc.file != file {
			continue
		}

		if !desc.valid {
			return newError(ErrBadBuffer, "flush %s: frame %d is invalid but owned", file.Name(), i)
		}

		if desc.pinCnt > 0 {
			return newError(ErrPagePinned, "flush %s: page %d in frame %d", file.Name(), desc.pageNo, i)
		}

		if desc.dirty {
			b.logger.Debug("flushing page", "file", file.Name(), "page", desc.pageNo, "frame", i)
			if err := file.WritePage(desc.pageNo, &b.pool[i]); err != nil {
				return err
			}
			desc.dirty = false
		}

		if err := b.pageTable.Remove(file, desc.pageNo); err != nil {
			return indexError(err, "flush %s: page %d", file.Name(), desc.pageNo)
		}

		desc.clear()
	}

	return nil
}

// Close writes back every dirty page and releases the pool. Write failures
// are logged and returned joined; frames still pinned are reported as
// ErrPinLeak. The manager must not be used afterwards.
func (b *BufferpoolManager) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	var err error
	leaked := 0
	for i := range b.frames {
		desc := &b.frames[i]
		if !desc.valid {
			continue
		}

		if desc.pinCnt > 0 {
			leaked++
			b.logger.Warn("page still pinned at teardown",
				"file", desc.file.Name(), "page", desc.pageNo, "frame", i, "pins", desc.pinCnt)
		}

		if desc.dirty {
			if e := desc.file.WritePage(desc.pageNo, &b.pool[i]); e != nil {
				b.logger.Warn("write back failed at teardown",
					"file", desc.file.Name(), "page", desc.pageNo, "frame", i, "err", e)
				err = errors.Join(err, e)
				continue
			}
			desc.dirty = false
		}
	}

	if leaked > 0 {
		err = errors.Join(err, newError(ErrPinLeak, "%d of %d frames", leaked, b.size))
	}

	b.pool = nil
	return err
}

// frameOf returns the descriptor the page table says holds the page. A
// mismatch means the table and the descriptors have diverged.
func (b *BufferpoolManager) frameOf(frameNo int, file File, pageNo int) *frameDesc {
	if frameNo < 0 || frameNo >= b.size {
		panic(fmt.Sprintf("page table returned frame %d for a pool of %d", frameNo, b.size))
	}

	desc := &b.frames[frameNo]
	if !desc.owns(file, pageNo) {
		panic(fmt.Sprintf("frame %d does not hold page %d of %s", frameNo, pageNo, file.Name()))
	}

	return desc
}

type BufferpoolManager struct {
	size       int
	frames     []frameDesc
	pool       []disk.Page
	pageTable  PageIndex
	clockHand  int
	sweepLimit int
	logger     *slog.Logger
	closed     bool
}
