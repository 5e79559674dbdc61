package disk

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskScheduler(t *testing.T) {
	t.Run("schedule is non blocking", func(t *testing.T) {
		diskMgr := newDiskManager(CreateDbFile(t), fileMeta{})
		ds := NewScheduler(diskMgr)
		t.Cleanup(ds.Shutdown)

		pageId, err := diskMgr.allocatePage()
		require.NoError(t, err)

		data := make([]byte, PAGE_SIZE)
		copy(data, []byte("hello world"))

		start := time.Now()
		respCh := ds.Schedule(NewRequest(pageId, data, true))
		elapsed := time.Since(start)

		assert.Less(t, elapsed, time.Millisecond)
		assert.NoError(t, (<-respCh).Err)
	})

	t.Run("can schedule read and write requests", func(t *testing.T) {
		diskMgr := newDiskManager(CreateDbFile(t), fileMeta{})
		ds := NewScheduler(diskMgr)
		t.Cleanup(ds.Shutdown)

		pageId, err := diskMgr.allocatePage()
		require.NoError(t, err)

		data := make([]byte, PAGE_SIZE)
		copy(data, []byte("hello world"))

		writeReq := NewRequest(pageId, data, true)
		readReq := NewRequest(pageId, nil, false)

		ds.Schedule(writeReq)
		ds.Schedule(readReq)

		assert.NoError(t, (<-writeReq.RespCh).Err)
		res := <-readReq.RespCh
		assert.NoError(t, res.Err)
		assert.Equal(t, data, res.Data)
	})

	t.Run("errors are reported on the response", func(t *testing.T) {
		ds := NewScheduler(newDiskManager(CreateDbFile(t), fileMeta{}))
		t.Cleanup(ds.Shutdown)

		res := <-ds.Schedule(NewRequest(42, nil, false))
		assert.ErrorIs(t, res.Err, ErrPageNotAllocated)
		assert.Nil(t, res.Data)
	})

	t.Run("requests for many pages all complete", func(t *testing.T) {
		diskMgr := newDiskManager(CreateDbFile(t), fileMeta{})
		ds := NewScheduler(diskMgr)

		pageIds := make([]int, 20)
		for i := range pageIds {
			id, err := diskMgr.allocatePage()
			require.NoError(t, err)
			pageIds[i] = id
		}

		var wg sync.WaitGroup
		for i, id := range pageIds {
			wg.Add(1)
			go func(id int, b byte) {
				defer wg.Done()
				data := make([]byte, PAGE_SIZE)
				data[0] = b
				assert.NoError(t, (<-ds.Schedule(NewRequest(id, data, true))).Err)
			}(id, byte(i))
		}
		wg.Wait()
		ds.Shutdown()

		for i, id := range pageIds {
			data, err := diskMgr.readPage(id)
			require.NoError(t, err)
			assert.Equal(t, byte(i), data[0])
		}
	})
}
