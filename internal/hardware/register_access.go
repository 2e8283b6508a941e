package hardware

import "errors"

var ErrRegisterAccessUnavailable = errors.New("register access is not available")

// RegisterAccess is the capability of a privileged helper to access
// model-specific registers, I/O ports and the PCI configuration space.
type RegisterAccess interface {
	IsAvailable() bool
	ReadMsr(index uint32) (eax uint32, edx uint32, err error)
	WriteMsr(index uint32, eax uint32, edx uint32) error
	ReadIoPort(port uint32) (byte, error)
	WriteIoPort(port uint32, value byte) error
	ReadPciConfig(pciAddress uint32, regAddress uint32) (uint32, error)
	WritePciConfig(pciAddress uint32, regAddress uint32, value uint32) error
}

// NoRegisterAccess is used when no privileged helper is present
type NoRegisterAccess struct{}

func (NoRegisterAccess) IsAvailable() bool {
	return false
}

func (NoRegisterAccess) ReadMsr(uint32) (uint32, uint32, error) {
	return 0, 0, ErrRegisterAccessUnavailable
}

func (NoRegisterAccess) WriteMsr(uint32, uint32, uint32) error {
	return ErrRegisterAccessUnavailable
}

func (NoRegisterAccess) ReadIoPort(uint32) (byte, error) {
	return 0, ErrRegisterAccessUnavailable
}

func (NoRegisterAccess) WriteIoPort(uint32, byte) error {
	return ErrRegisterAccessUnavailable
}

func (NoRegisterAccess) ReadPciConfig(uint32, uint32) (uint32, error) {
	return 0, ErrRegisterAccessUnavailable
}

func (NoRegisterAccess) WritePciConfig(uint32, uint32, uint32) error {
	return ErrRegisterAccessUnavailable
}
