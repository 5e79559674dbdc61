package disk

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Open opens the database file at path, creating it if needed, and loads its
// allocation table from the metadata sidecar.
func Open(path string) (*File, error) {
	meta, err := loadMeta(path)
	if err != nil {
		return nil, err
	}

	dbFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening db file %s: %w", path, err)
	}

	dm := newDiskManager(dbFile, meta)
	return &File{
		path:      path,
		dm:        dm,
		scheduler: NewScheduler(dm),
	}, nil
}

func (f *File) ReadPage(pageNo int, dst *Page) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrClosed
	}

	resp := <-f.scheduler.Schedule(NewRequest(pageNo, nil, false))
	if resp.Err != nil {
		return resp.Err
	}

	copy(dst[:], resp.Data)
	return nil
}

func (f *File) WritePage(pageNo int, src *Page) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrClosed
	}

	// the scheduler owns its copy, src may be reused as soon as we return
	data := make([]byte, PAGE_SIZE)
	copy(data, src[:])

	resp := <-f.scheduler.Schedule(NewRequest(pageNo, data, true))
	return resp.Err
}

func (f *File) AllocatePage() (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return INVALID_PAGE_ID, ErrClosed
	}

	return f.dm.allocatePage()
}

func (f *File) DisposePage(pageNo int) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrClosed
	}

	return f.dm.deletePage(pageNo)
}

func (f *File) Name() string {
	return f.path
}

func (f *File) NumPages() int {
	return f.dm.numPages()
}

// Close drains pending I/O, persists the allocation table and closes the
// underlying file. Closing twice is a no-op.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	f.scheduler.Shutdown()

	var err error
	if e := storeMeta(f.path, f.dm.snapshot()); e != nil {
		err = errors.Join(err, e)
	}
	if e := f.dm.dbFile.Sync(); e != nil {
		err = errors.Join(err, fmt.Errorf("sync file: %w", e))
	}
	if e := f.dm.dbFile.Close(); e != nil {
		err = errors.Join(err, fmt.Errorf("close file: %w", e))
	}

	return err
}

// File is a page-oriented database file. Reads and writes go through a
// DiskScheduler; allocation and disposal update the allocation table
// directly. A File is safe for concurrent use.
type File struct {
	mu        sync.RWMutex
	path      string
	closed    bool
	dm        *diskManager
	scheduler *DiskScheduler
}
