package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jpsinha1/minirel/buffer"
	"github.com/jpsinha1/minirel/storage/disk"
	"github.com/jpsinha1/minirel/util"
)

type record struct {
	PageNo  int    `msgpack:"page_no"`
	Seq     int    `msgpack:"seq"`
	Payload string `msgpack:"payload"`
}

func main() {
	dbPath := flag.String("db", "", "database file (default: a file in a new temp dir)")
	numBufs := flag.Int("bufs", 8, "number of frames in the buffer pool")
	numPages := flag.Int("pages", 32, "number of pages to write and verify")
	verbose := flag.Bool("v", false, "log buffer pool activity")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*dbPath, *numBufs, *numPages, logger); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(dbPath string, numBufs, numPages int, logger *slog.Logger) error {
	if dbPath == "" {
		dir, err := os.MkdirTemp("", "minirel")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		defer os.RemoveAll(dir)
		dbPath = filepath.Join(dir, "minirel.db")
	}

	return exercise(dbPath, numBufs, numPages, logger)
}

func exercise(dbPath string, numBufs, numPages int, logger *slog.Logger) (err error) {
	if numBufs <= 0 {
		return fmt.Errorf("-bufs must be positive, got %d", numBufs)
	}

	file, err := disk.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	bufferMgr := buffer.NewBufferpoolManager(numBufs, buffer.WithLogger(logger))
	defer func() {
		err = errors.Join(err, bufferMgr.Close())
	}()

	pageNos, err := writeRecords(bufferMgr, file, numPages)
	if err != nil {
		return err
	}
	logger.Info("wrote records", "pages", len(pageNos), "file", file.Name())

	if err := bufferMgr.FlushFile(file); err != nil {
		return err
	}

	if err := verifyRecords(bufferMgr, file, pageNos); err != nil {
		return err
	}
	logger.Info("verified records", "pages", len(pageNos))

	bufferMgr.Dump(os.Stdout)
	stats := bufferMgr.Stats()
	fmt.Printf("frames: %d valid: %d pinned: %d dirty: %d\n", stats.Frames, stats.Valid, stats.Pinned, stats.Dirty)

	return nil
}

func writeRecords(bufferMgr *buffer.BufferpoolManager, file *disk.File, numPages int) ([]int, error) {
	pageNos := make([]int, 0, numPages)
	for i := range numPages {
		guard, err := bufferMgr.NewPage(file)
		if err != nil {
			return nil, err
		}

		data, err := util.ToByteSlice(record{
			PageNo:  guard.PageNo(),
			Seq:     i,
			Payload: fmt.Sprintf("record %d of %s", i, file.Name()),
		}, disk.PAGE_SIZE)
		if err != nil {
			_ = guard.Drop()
			return nil, err
		}

		copy(guard.GetDataMut()[:], data)
		pageNos = append(pageNos, guard.PageNo())
		if err := guard.Drop(); err != nil {
			return nil, err
		}
	}

	return pageNos, nil
}

func verifyRecords(bufferMgr *buffer.BufferpoolManager, file *disk.File, pageNos []int) error {
	for i, pageNo := range pageNos {
		guard, err := bufferMgr.FetchPageRead(file, pageNo)
		if err != nil {
			return err
		}

		rec, err := util.ToStruct[record](guard.GetData()[:])
		if dropErr := guard.Drop(); dropErr != nil {
			return dropErr
		}
		if err != nil {
			return fmt.Errorf("decode page %d: %w", pageNo, err)
		}

		if rec.PageNo != pageNo || rec.Seq != i {
			return fmt.Errorf("page %d holds record %d of page %d, want record %d", pageNo, rec.Seq, rec.PageNo, i)
		}
	}

	return nil
}
