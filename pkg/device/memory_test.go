package device

import (
	"errors"
	"io"
	"testing"

	. "github.com/weberc2/newfs/pkg/types"
)

func TestMemoryRejectsPartialTransfers(t *testing.T) {
	m := NewMemory(4096, 512)
	for _, size := range []int{0, 1, 511, 513, 1024} {
		if err := m.Write(make([]byte, size)); !errors.Is(err, InvalidArgumentErr) {
			t.Fatalf(
				"Memory.Write(%d bytes): wanted `%v`; found `%v`",
				size,
				InvalidArgumentErr,
				err,
			)
		}
	}
}

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory(2048, 512)
	unit := make([]byte, 512)
	for i := range unit {
		unit[i] = byte(i)
	}
	if err := m.Seek(1024); err != nil {
		t.Fatalf("Memory.Seek(): unexpected err: %v", err)
	}
	if err := m.Write(unit); err != nil {
		t.Fatalf("Memory.Write(): unexpected err: %v", err)
	}
	if err := m.Seek(1024); err != nil {
		t.Fatalf("Memory.Seek(): unexpected err: %v", err)
	}
	found := make([]byte, 512)
	if err := m.Read(found); err != nil {
		t.Fatalf("Memory.Read(): unexpected err: %v", err)
	}
	if string(found) != string(unit) {
		t.Fatal("Memory.Read(): data mismatch")
	}

	// cursor is at 1536; one more unit fits, two don't
	if err := m.Read(found); err != nil {
		t.Fatalf("Memory.Read(): unexpected err: %v", err)
	}
	if err := m.Read(found); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Memory.Read(): wanted `%v`; found `%v`", io.ErrUnexpectedEOF, err)
	}
}
