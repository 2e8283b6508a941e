package transport

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Port is the subset of a serial port used by the device drivers.
// Read returns (0, nil) when the read timeout elapses without data.
type Port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	ResetOutputBuffer() error
	SetReadTimeout(timeout time.Duration) error
}

// Opener opens the serial port with the given name at 8N1
type Opener func(name string, baudRate int) (Port, error)

// PollTimeout is the read timeout used for non-blocking draining of a port
const PollTimeout = 10 * time.Millisecond

// OpenSerial opens a serial port using go.bug.st/serial
func OpenSerial(name string, baudRate int) (Port, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if err = port.SetReadTimeout(PollTimeout); err != nil {
		_ = port.Close()
		return nil, err
	}
	return port, nil
}

// DescribeOpenError turns a port open error into a short status text
func DescribeOpenError(err error) string {
	var portError *serial.PortError
	if errors.As(err, &portError) {
		switch portError.Code() {
		case serial.PortBusy:
			return "port busy"
		case serial.PermissionDenied:
			return "permission denied"
		case serial.PortNotFound:
			return "port not found"
		}
		return portError.EncodedErrorString()
	}
	return err.Error()
}

type PortInfo struct {
	Name         string
	VendorId     uint16
	ProductId    uint16
	SerialNumber string
	Product      string
}

// Lister lists USB serial ports with the given vendor and product id
type Lister func(vendorId uint16, productId uint16) ([]PortInfo, error)

// ListUsbPorts enumerates USB serial ports using go.bug.st/serial/enumerator
func ListUsbPorts(vendorId uint16, productId uint16) ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate serial ports: %w", err)
	}

	var result []PortInfo
	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		vid, err := parseUsbId(port.VID)
		if err != nil {
			continue
		}
		pid, err := parseUsbId(port.PID)
		if err != nil {
			continue
		}
		if vid != vendorId || pid != productId {
			continue
		}
		result = append(result, PortInfo{
			Name:         port.Name,
			VendorId:     vid,
			ProductId:    pid,
			SerialNumber: port.SerialNumber,
			Product:      port.Product,
		})
	}
	return result, nil
}

func parseUsbId(text string) (uint16, error) {
	text = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(text)), "0x")
	value, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(value), nil
}
