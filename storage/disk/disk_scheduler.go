package disk

import (
	"sync"
)

func NewScheduler(diskManager *diskManager) *DiskScheduler {
	ds := &DiskScheduler{
		reqCh:       make(chan DiskReq, 100),
		pageQueue:   make(map[int]chan DiskReq),
		diskManager: diskManager,
		done:        make(chan struct{}),
	}

	go ds.handleDiskReq()
	return ds
}

func NewRequest(pageId int, data []byte, isWrite bool) DiskReq {
	return DiskReq{
		PageId: pageId,
		Data:   data,
		Write:  isWrite,
		RespCh: make(chan DiskResp, 1),
	}
}

// Schedule queues req behind any request already pending for the same page.
// Requests for one page are served in the order they were scheduled.
func (ds *DiskScheduler) Schedule(req DiskReq) <-chan DiskResp {
	ds.reqCh <- req
	return req.RespCh
}

// Shutdown stops accepting requests and waits for queued ones to drain.
func (ds *DiskScheduler) Shutdown() {
	ds.closeOnce.Do(func() {
		close(ds.reqCh)
	})
	<-ds.done
	ds.workers.Wait()
}

func (ds *DiskScheduler) handleDiskReq() {
	defer close(ds.done)

	for req := range ds.reqCh {
		// the send happens under the lock so a worker can never observe an
		// empty queue and exit while a request is being handed to it
		ds.pageQueueMu.Lock()
		queue, ok := ds.pageQueue[req.PageId]
		if !ok {
			queue = make(chan DiskReq, 10)
			ds.pageQueue[req.PageId] = queue
		}
		queue <- req
		ds.pageQueueMu.Unlock()

		// !ok means we created a new page queue, therefore we should start a
		// new worker to handle the queue's page requests
		if !ok {
			ds.workers.Add(1)
			go ds.pageWorker(req.PageId, queue)
		}
	}
}

func (ds *DiskScheduler) pageWorker(pageId int, reqQueue chan DiskReq) {
	defer ds.workers.Done()

	for {
		select {
		case req := <-reqQueue:
			ds.serve(req)

		default:
			ds.pageQueueMu.Lock()
			if len(reqQueue) > 0 {
				ds.pageQueueMu.Unlock()
				continue
			}
			// done handling request for this page, can remove it from queue
			delete(ds.pageQueue, pageId)
			ds.pageQueueMu.Unlock()
			return
		}
	}
}

func (ds *DiskScheduler) serve(req DiskReq) {
	if req.Write {
		req.RespCh <- DiskResp{Err: ds.diskManager.writePage(req.PageId, req.Data)}
		return
	}

	data, err := ds.diskManager.readPage(req.PageId)
	req.RespCh <- DiskResp{Data: data, Err: err}
}

type DiskScheduler struct {
	reqCh       chan DiskReq
	diskManager *diskManager

	pageQueue   map[int]chan DiskReq
	pageQueueMu sync.Mutex

	workers   sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
}

type DiskReq struct {
	PageId int
	Data   []byte
	Write  bool
	RespCh chan DiskResp
}

type DiskResp struct {
	Data []byte
	Err  error
}
