package device

import (
	"fmt"
	"io"
	"os"

	. "github.com/weberc2/newfs/pkg/types"
)

// Memory is a Driver over a byte slice.
type Memory struct {
	data   []byte
	ioUnit Byte
	cursor Byte
	closed bool
}

func NewMemory(size, ioUnit Byte) *Memory {
	return NewMemoryFrom(make([]byte, size), ioUnit)
}

func NewMemoryFrom(data []byte, ioUnit Byte) *Memory {
	return &Memory{data: data, ioUnit: ioUnit}
}

func (m *Memory) Bytes() []byte { return m.data }

func (m *Memory) Size() Byte { return Byte(len(m.data)) }

func (m *Memory) IOUnit() Byte { return m.ioUnit }

func (m *Memory) Seek(offset Byte) error {
	if m.closed {
		return fmt.Errorf("seeking to offset `%d`: %w", offset, os.ErrClosed)
	}
	if offset > Byte(len(m.data)) {
		return fmt.Errorf(
			"seeking to offset `%d` on device of size `%d`: %w",
			offset,
			len(m.data),
			InvalidArgumentErr,
		)
	}
	m.cursor = offset
	return nil
}

func (m *Memory) Read(p []byte) error {
	if err := m.check(p); err != nil {
		return fmt.Errorf("reading at offset `%d`: %w", m.cursor, err)
	}
	copy(p, m.data[m.cursor:])
	m.cursor += Byte(len(p))
	return nil
}

func (m *Memory) Write(p []byte) error {
	if err := m.check(p); err != nil {
		return fmt.Errorf("writing at offset `%d`: %w", m.cursor, err)
	}
	copy(m.data[m.cursor:], p)
	m.cursor += Byte(len(p))
	return nil
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

func (m *Memory) check(p []byte) error {
	if m.closed {
		return os.ErrClosed
	}
	if Byte(len(p)) != m.ioUnit {
		return fmt.Errorf(
			"transfer of `%d` bytes with I/O unit `%d`: %w",
			len(p),
			m.ioUnit,
			InvalidArgumentErr,
		)
	}
	if m.cursor+Byte(len(p)) > Byte(len(m.data)) {
		return io.ErrUnexpectedEOF
	}
	return nil
}
