package io

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/math"
	. "github.com/weberc2/newfs/pkg/types"
)

// BlockVolume is a byte-addressed Volume over a Driver. Every access is
// widened to whole blocks and carried out as a sequence of single I/O-unit
// transfers; partial-block writes read the surrounding block first. Driver
// failures are reported as IOErr.
type BlockVolume struct {
	driver    device.Driver
	blockSize Byte
}

func NewBlockVolume(driver device.Driver, blockSize Byte) *BlockVolume {
	return &BlockVolume{driver: driver, blockSize: blockSize}
}

func (v *BlockVolume) BlockSize() Byte { return v.blockSize }

func (v *BlockVolume) ReadAt(offset Byte, p []byte) error {
	start, buf := v.span(offset, Byte(len(p)))
	if err := v.transfer(start, buf, v.driver.Read); err != nil {
		return fmt.Errorf(
			"reading `%d` bytes at offset `%d`: %w",
			len(p),
			offset,
			err,
		)
	}
	copy(p, buf[offset-start:])
	return nil
}

func (v *BlockVolume) WriteAt(offset Byte, p []byte) error {
	start, buf := v.span(offset, Byte(len(p)))
	if offset != start || Byte(len(p)) != Byte(len(buf)) {
		if err := v.transfer(start, buf, v.driver.Read); err != nil {
			return fmt.Errorf(
				"writing `%d` bytes at offset `%d`: reading surrounding "+
					"blocks: %w",
				len(p),
				offset,
				err,
			)
		}
	}
	copy(buf[offset-start:], p)
	if err := v.transfer(start, buf, v.driver.Write); err != nil {
		return fmt.Errorf(
			"writing `%d` bytes at offset `%d`: %w",
			len(p),
			offset,
			err,
		)
	}
	return nil
}

func (v *BlockVolume) span(offset, size Byte) (Byte, []byte) {
	start := math.RoundDown(offset, v.blockSize)
	end := math.RoundUp(offset+size, v.blockSize)
	return start, make([]byte, end-start)
}

func (v *BlockVolume) transfer(
	start Byte,
	buf []byte,
	op func([]byte) error,
) error {
	if err := v.driver.Seek(start); err != nil {
		return fmt.Errorf("seeking to `%d`: %w: %w", start, IOErr, err)
	}
	unit := v.driver.IOUnit()
	for i := Byte(0); i < Byte(len(buf)); i += unit {
		if err := op(buf[i : i+unit]); err != nil {
			return fmt.Errorf(
				"transferring I/O unit at `%d`: %w: %w",
				start+i,
				IOErr,
				err,
			)
		}
	}
	return nil
}
