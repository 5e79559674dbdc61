package buffer

import "github.com/jpsinha1/minirel/storage/disk"

// FetchPageRead pins the page for reading. Drop unpins it clean.
func (b *BufferpoolManager) FetchPageRead(file File, pageNo int) (*ReadPageGuard, error) {
	page, err := b.ReadPage(file, pageNo)
	if err != nil {
		return nil, err
	}

	return NewReadPageGuard(b, file, pageNo, page), nil
}

// FetchPageWrite pins the page for writing. Drop unpins it dirty.
func (b *BufferpoolManager) FetchPageWrite(file File, pageNo int) (*WritePageGuard, error) {
	page, err := b.ReadPage(file, pageNo)
	if err != nil {
		return nil, err
	}

	return NewWritePageGuard(b, file, pageNo, page), nil
}

// NewPage allocates a page in file and returns a write guard on it.
func (b *BufferpoolManager) NewPage(file File) (*WritePageGuard, error) {
	pageNo, page, err := b.AllocPage(file)
	if err != nil {
		return nil, err
	}

	return NewWritePageGuard(b, file, pageNo, page), nil
}

func NewReadPageGuard(bpm *BufferpoolManager, file File, pageNo int, page *disk.Page) *ReadPageGuard {
	return &ReadPageGuard{
		PageGuard: PageGuard{
			bpm:    bpm,
			file:   file,
			pageNo: pageNo,
			page:   page,
		},
	}
}

func NewWritePageGuard(bpm *BufferpoolManager, file File, pageNo int, page *disk.Page) *WritePageGuard {
	return &WritePageGuard{
		PageGuard: PageGuard{
			bpm:    bpm,
			file:   file,
			pageNo: pageNo,
			page:   page,
		},
	}
}

func (pg *ReadPageGuard) Drop() error {
	if pg == nil {
		return nil
	}
	return pg.drop(false)
}

func (pg *WritePageGuard) Drop() error {
	if pg == nil {
		return nil
	}
	return pg.drop(true)
}

func (pg *ReadPageGuard) GetData() *disk.Page {
	return pg.page
}

func (pg *WritePageGuard) GetDataMut() *disk.Page {
	return pg.page
}

func (pg *PageGuard) PageNo() int {
	return pg.pageNo
}

// drop unpins the page once. Later calls do nothing.
func (pg *PageGuard) drop(dirty bool) error {
	if pg.page == nil {
		return nil
	}

	pg.page = nil
	return pg.bpm.UnpinPage(pg.file, pg.pageNo, dirty)
}

type PageGuard struct {
	bpm    *BufferpoolManager
	file   File
	pageNo int
	page   *disk.Page
}

type ReadPageGuard struct {
	PageGuard
}

type WritePageGuard struct {
	PageGuard
}
