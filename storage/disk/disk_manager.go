package disk

import (
	"fmt"
	"os"
	"sync"
)

func newDiskManager(file *os.File, meta fileMeta) *diskManager {
	dm := &diskManager{
		dbFile:       file,
		pageCapacity: meta.PageCapacity,
		freeSlots:    meta.FreeSlots,
		pages:        meta.Pages,
		nextPageId:   meta.NextPageId,
	}

	if dm.pageCapacity <= 0 {
		dm.pageCapacity = DEFAULT_PAGE_CAPACITY
	}
	if dm.pages == nil {
		dm.pages = map[int]int{}
	}
	if dm.freeSlots == nil {
		dm.freeSlots = []int{}
	}

	return dm
}

func (dm *diskManager) writePage(pageId int, data []byte) error {
	if len(data) != PAGE_SIZE {
		return ErrInvalidPageSize
	}

	offset, err := dm.offsetOf(pageId)
	if err != nil {
		return err
	}

	if _, err := dm.dbFile.WriteAt(data, int64(offset)); err != nil {
		return fmt.Errorf("error writing page %d at offset %d: %w", pageId, offset, err)
	}

	return nil
}

func (dm *diskManager) readPage(pageId int) ([]byte, error) {
	offset, err := dm.offsetOf(pageId)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, PAGE_SIZE)
	if _, err := dm.dbFile.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("error reading page %d from offset %d: %w", pageId, offset, err)
	}

	return buf, nil
}

// allocatePage hands out a page id that has never been used before. Byte
// slots of disposed pages are recycled, ids are not.
func (dm *diskManager) allocatePage() (int, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset, err := dm.allocateSlot()
	if err != nil {
		return INVALID_PAGE_ID, err
	}

	// recycled slots still hold the disposed page's bytes
	if _, err := dm.dbFile.WriteAt(make([]byte, PAGE_SIZE), int64(offset)); err != nil {
		dm.freeSlots = append(dm.freeSlots, offset)
		return INVALID_PAGE_ID, fmt.Errorf("error zeroing offset %d: %w", offset, err)
	}

	pageId := dm.nextPageId
	dm.nextPageId++
	dm.pages[pageId] = offset

	return pageId, nil
}

func (dm *diskManager) deletePage(pageId int) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset, ok := dm.pages[pageId]
	if !ok {
		return fmt.Errorf("delete page %d: %w", pageId, ErrPageNotAllocated)
	}

	dm.freeSlots = append(dm.freeSlots, offset)
	delete(dm.pages, pageId)
	return nil
}

func (dm *diskManager) allocateSlot() (int, error) {
	if len(dm.freeSlots) > 0 {
		offset := dm.freeSlots[0]
		dm.freeSlots = dm.freeSlots[1:]

		return offset, nil
	}

	if len(dm.pages)+1 > dm.pageCapacity {
		dm.pageCapacity *= 2
		if err := dm.dbFile.Truncate(int64(dm.pageCapacity) * PAGE_SIZE); err != nil {
			dm.pageCapacity /= 2
			return -1, fmt.Errorf("error resizing db file: %w", err)
		}
	}

	return dm.getNextOffset(), nil
}

// getNextOffset is only valid while no slot is free: live pages then occupy
// a dense prefix of the file.
func (dm *diskManager) getNextOffset() int {
	return len(dm.pages) * PAGE_SIZE
}

func (dm *diskManager) offsetOf(pageId int) (int, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset, ok := dm.pages[pageId]
	if !ok {
		return -1, fmt.Errorf("page %d: %w", pageId, ErrPageNotAllocated)
	}

	return offset, nil
}

func (dm *diskManager) numPages() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return len(dm.pages)
}

func (dm *diskManager) snapshot() fileMeta {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	pages := make(map[int]int, len(dm.pages))
	for id, offset := range dm.pages {
		pages[id] = offset
	}

	return fileMeta{
		Pages:        pages,
		FreeSlots:    append([]int{}, dm.freeSlots...),
		NextPageId:   dm.nextPageId,
		PageCapacity: dm.pageCapacity,
	}
}

type diskManager struct {
	mu           sync.Mutex
	dbFile       *os.File
	pages        map[int]int
	freeSlots    []int
	pageCapacity int
	nextPageId   int
}
