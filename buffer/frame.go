package buffer

import (
	"github.com/jpsinha1/minirel/storage/disk"
)

func (f *frameDesc) set(file File, pageNo int) {
	f.file = file
	f.pageNo = pageNo
	f.pinCnt = 1
	f.dirty = false
	f.valid = true
	f.refbit = true
}

func (f *frameDesc) pin() {
	f.pinCnt++
	f.refbit = true
}

func (f *frameDesc) unpin(dirty bool) {
	f.pinCnt--
	if dirty {
		f.dirty = true
	}
}

func (f *frameDesc) owns(file File, pageNo int) bool {
	return f.valid && f.file == file && f.pageNo == pageNo
}

func (f *frameDesc) clear() {
	f.file = nil
	f.pageNo = disk.INVALID_PAGE_ID
	f.pinCnt = 0
	f.dirty = false
	f.valid = false
	f.refbit = false
}

// frameDesc is the bookkeeping for one slot of the pool. file and pageNo
// are only meaningful while valid is set.
type frameDesc struct {
	frameNo int
	file    File
	pageNo  int
	pinCnt  int
	dirty   bool
	valid   bool
	refbit  bool
}
