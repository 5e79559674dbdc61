package buffer

func (b *BufferpoolManager) advanceClock() {
	b.clockHand = (b.clockHand + 1) % b.size
}

// allocBuf sweeps the clock for a frame that is neither pinned nor recently
// referenced and returns it cleared. A resident victim is written back first
// if dirty. Unpinned frames with the refbit set lose it and are passed over
// once. The sweep stops with ErrBufferExceeded after sweepLimit inspections.
func (b *BufferpoolManager) allocBuf() (int, error) {
	for range b.sweepLimit {
		b.advanceClock()
		desc := &b.frames[b.clockHand]

		if desc.pinCnt > 0 {
			continue
		}

		if desc.refbit {
			desc.refbit = false
			continue
		}

		if err := b.evict(desc); err != nil {
			return -1, err
		}

		return desc.frameNo, nil
	}

	return -1, newError(ErrBufferExceeded, "no victim after %d inspections of %d frames", b.sweepLimit, b.size)
}

// evict drops the page held by desc, if any. When the write-back fails the
// frame is left untouched and the I/O error is returned as is.
func (b *BufferpoolManager) evict(desc *frameDesc) error {
	if !desc.valid {
		return nil
	}

	b.logger.Debug("evicting page",
		"file", desc.file.Name(), "page", desc.pageNo, "frame", desc.frameNo, "dirty", desc.dirty)

	if desc.dirty {
		if err := desc.file.WritePage(desc.pageNo, &b.pool[desc.frameNo]); err != nil {
			return err
		}
		desc.dirty = false
	}

	if err := b.pageTable.Remove(desc.file, desc.pageNo); err != nil {
		return indexError(err, "evict page %d from frame %d", desc.pageNo, desc.frameNo)
	}

	desc.clear()
	return nil
}
