package heatmaster

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/transport"
	"github.com/markusressel/hwmon2go/internal/ui"
)

const (
	DefaultVendorId  = 0x10C4
	DefaultProductId = 0xEA60
	DefaultBaudRate  = 38400

	supportedHardwareRevision = 770
	revisionPrefix            = "-[0:0]RH:"
)

var syncTimeout = 10 * 20 * time.Millisecond

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

// Group detects Heatmaster devices on USB serial ports
type Group struct {
	hardware []hardware.Hardware
	report   strings.Builder
}

func NewGroup(settings hardware.Settings, options Options) *Group {
	g := &Group{}

	ports, err := options.List(options.VendorId, options.ProductId)
	if err != nil {
		ui.Warning("Heatmaster: %v", err)
		g.report.WriteString(fmt.Sprintf("Enumeration Error: %v\n\n", err))
		return g
	}

	for _, info := range ports {
		g.report.WriteString(fmt.Sprintf("Port Name: %s\n", info.Name))

		port, status := probe(info.Name, options)
		g.report.WriteString(status)
		g.report.WriteString("\n")
		if port != nil {
			ui.Info("Detected Heatmaster on %s", info.Name)
			g.hardware = append(g.hardware, NewHeatmaster(info.Name, port, settings))
		}
	}
	return g
}

// probe returns the open port if a supported Heatmaster answers on it
func probe(name string, options Options) (transport.Port, string) {
	port, err := options.Open(name, options.BaudRate)
	if err != nil {
		ui.Debug("Heatmaster: unable to open %s: %v", name, err)
		return nil, fmt.Sprintf("Open Status: %s\n", transport.DescribeOpenError(err))
	}
	status := "Open Status: OK\n"

	closeWith := func(text string) (transport.Port, string) {
		_ = port.Close()
		return nil, status + text
	}

	conn := newConnection(port)
	_ = conn.buffer.Purge()
	_ = port.ResetOutputBuffer()

	if _, err = port.Write([]byte{syncByte}); err != nil {
		return closeWith(fmt.Sprintf("Write Status: %v\n", err))
	}

	available, err := conn.buffer.FillUntil(1, syncTimeout)
	if err != nil || available == 0 {
		return closeWith("Status: No Response\n")
	}
	index := conn.buffer.IndexByte(syncByte)
	if index < 0 {
		return closeWith("Status: Wrong Startflag\n")
	}
	conn.buffer.Discard(index + 1)

	if err = conn.writeLine("[0:0]RH"); err != nil {
		return closeWith(fmt.Sprintf("Write Status: %v\n", err))
	}

	revision, err := readRevision(conn)
	if err != nil {
		return closeWith("Status: Timeout Reading Revision\n")
	}
	if revision != supportedHardwareRevision {
		return closeWith(fmt.Sprintf("Status: Wrong Hardware Revision %d\n", revision))
	}
	return port, status + "Status: OK\n"
}

// readRevision returns revision 0 when the device answers without a revision line
func readRevision(conn *connection) (int, error) {
	for i := 0; i < fieldAttempts; i++ {
		line, err := conn.readLine(lineTimeout)
		if err != nil {
			return 0, err
		}
		if strings.HasPrefix(line, revisionPrefix) {
			return strconv.Atoi(strings.TrimSpace(line[len(revisionPrefix):]))
		}
	}
	return 0, nil
}

func (g *Group) Hardware() []hardware.Hardware {
	return g.hardware
}

func (g *Group) Report() string {
	if g.report.Len() == 0 {
		return ""
	}
	return "Serial Port Heatmaster\n\n" + g.report.String()
}

func (g *Group) Close() {
	for _, hw := range g.hardware {
		if err := hw.Close(); err != nil {
			ui.Warning("Error closing %s: %v", hw.Identifier(), err)
		}
	}
}
