package tbalancer

import (
	"fmt"
	"strings"
	"time"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/transport"
	"github.com/markusressel/hwmon2go/internal/ui"
)

const (
	DefaultVendorId  = 0x0403
	DefaultProductId = 0x6001
	DefaultBaudRate  = 19200
)

var (
	firstByteTimeout = 200 * time.Millisecond
	frameTimeout     = 300 * time.Millisecond
)

type Options struct {
	VendorId  uint16
	ProductId uint16
	BaudRate  int

	List transport.Lister
	Open transport.Opener
}

func DefaultOptions() Options {
	return Options{
		VendorId:  DefaultVendorId,
		ProductId: DefaultProductId,
		BaudRate:  DefaultBaudRate,
		List:      transport.ListUsbPorts,
		Open:      transport.OpenSerial,
	}
}

// Group detects T-Balancer devices on USB serial ports
type Group struct {
	hardware []hardware.Hardware
	report   strings.Builder
}

func NewGroup(settings hardware.Settings, options Options) *Group {
	g := &Group{}

	ports, err := options.List(options.VendorId, options.ProductId)
	if err != nil {
		ui.Warning("T-Balancer: %v", err)
		g.report.WriteString(fmt.Sprintf("Enumeration Error: %v\n\n", err))
		return g
	}

	for index, info := range ports {
		g.report.WriteString(fmt.Sprintf("Port Index: %d\n", index))
		g.report.WriteString(fmt.Sprintf("Port Name: %s\n", info.Name))
		if len(info.SerialNumber) > 0 {
			g.report.WriteString(fmt.Sprintf("Serial Number: %s\n", info.SerialNumber))
		}

		device, status := g.probe(index, info.Name, settings, options)
		g.report.WriteString(status)
		g.report.WriteString("\n")
		if device != nil {
			ui.Info("Detected T-Balancer bigNG on %s", info.Name)
			g.hardware = append(g.hardware, device)
		}
	}
	return g
}

func (g *Group) probe(index int, name string, settings hardware.Settings, options Options) (*TBalancer, string) {
	port, err := options.Open(name, options.BaudRate)
	if err != nil {
		ui.Debug("T-Balancer: unable to open %s: %v", name, err)
		return nil, fmt.Sprintf("Open Status: %s\n", transport.DescribeOpenError(err))
	}
	status := "Open Status: OK\n"

	closeWith := func(text string) (*TBalancer, string) {
		_ = port.Close()
		return nil, status + text
	}

	buffer := transport.NewBuffer(port)
	_ = buffer.Purge()
	_ = port.ResetOutputBuffer()

	if _, err = port.Write([]byte{requestPrimary}); err != nil {
		return closeWith(fmt.Sprintf("Write Status: %v\n", err))
	}
	status += "Write Status: OK\n"

	available, err := buffer.FillUntil(1, firstByteTimeout)
	if err != nil || available == 0 {
		return closeWith("Status: No Response\n")
	}
	if first := buffer.Peek(0); first != startFlag {
		return closeWith(fmt.Sprintf("Status: Wrong Startflag 0x%02X\n", first))
	}

	available, err = buffer.FillUntil(frameLength, frameTimeout)
	if err != nil || available < frameLength {
		return closeWith(fmt.Sprintf("Status: Wrong Message Length: %d\n", available))
	}

	data := buffer.Take(frameLength)
	version := data[offsetProtocolVersion]
	if !isSupportedProtocol(version) {
		return closeWith(fmt.Sprintf("Status: Wrong Protocol Version: 0x%02X\n", version))
	}

	return NewTBalancer(index, name, version, port, settings), status + "Status: OK\n"
}

func (g *Group) Hardware() []hardware.Hardware {
	return g.hardware
}

func (g *Group) Report() string {
	if g.report.Len() == 0 {
		return ""
	}
	return "Serial Port T-Balancer\n\n" + g.report.String()
}

func (g *Group) Close() {
	for _, hw := range g.hardware {
		if err := hw.Close(); err != nil {
			ui.Warning("Error closing %s: %v", hw.Identifier(), err)
		}
	}
}
