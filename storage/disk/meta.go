package disk

import (
	"errors"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack"
)

const metaSuffix = ".meta"

// fileMeta is the allocation table of a data file. It lives next to the data
// file so that page contents keep the whole of every slot.
type fileMeta struct {
	Pages        map[int]int `msgpack:"pages"`
	FreeSlots    []int       `msgpack:"free_slots"`
	NextPageId   int         `msgpack:"next_page_id"`
	PageCapacity int         `msgpack:"page_capacity"`
}

func loadMeta(path string) (fileMeta, error) {
	var meta fileMeta

	data, err := os.ReadFile(path + metaSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("error reading metadata: %w", err)
	}

	if err := msgpack.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("error decoding metadata: %w", err)
	}

	return meta, nil
}

func storeMeta(path string, meta fileMeta) error {
	data, err := msgpack.Marshal(meta)
	if err != nil {
		return fmt.Errorf("error encoding metadata: %w", err)
	}

	tmp := path + metaSuffix + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("error writing metadata: %w", err)
	}

	if err := os.Rename(tmp, path+metaSuffix); err != nil {
		return fmt.Errorf("error replacing metadata: %w", err)
	}

	return nil
}
