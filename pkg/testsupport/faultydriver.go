package testsupport

import (
	"github.com/weberc2/newfs/pkg/device"
	. "github.com/weberc2/newfs/pkg/types"
)

const InjectedErr ConstError = "injected failure"

// FaultyDriver wraps a driver and fails every transfer once `FailAfter`
// transfers have succeeded. A negative `FailAfter` never fails. It also
// records the size of every transfer it forwards.
type FaultyDriver struct {
	device.Driver
	FailAfter int
	Transfers []int
	Closed    bool
}

func (fd *FaultyDriver) Read(p []byte) error {
	if err := fd.tick(p); err != nil {
		return err
	}
	return fd.Driver.Read(p)
}

func (fd *FaultyDriver) Write(p []byte) error {
	if err := fd.tick(p); err != nil {
		return err
	}
	return fd.Driver.Write(p)
}

func (fd *FaultyDriver) Close() error {
	fd.Closed = true
	return fd.Driver.Close()
}

func (fd *FaultyDriver) tick(p []byte) error {
	if fd.FailAfter >= 0 && len(fd.Transfers) >= fd.FailAfter {
		return InjectedErr
	}
	fd.Transfers = append(fd.Transfers, len(p))
	return nil
}
