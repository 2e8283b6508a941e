package aquacomputer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/transport"
	"github.com/markusressel/hwmon2go/internal/ui"
)

const (
	DefaultVendorId  = 0x0C70
	DefaultProductId = 0xF0B6
)

type Options struct {
	VendorId  uint16
	ProductId uint16

	// Init and Exit are optional
	Init func() error
	Exit func() error
	List transport.HidLister
	Open transport.HidOpener
}

func DefaultOptions() Options {
	return Options{
		VendorId:  DefaultVendorId,
		ProductId: DefaultProductId,
		Init:      transport.InitHid,
		Exit:      transport.ExitHid,
		List:      transport.ListHid,
		Open:      transport.OpenHid,
	}
}

// Group detects Aquacomputer USB HID devices
type Group struct {
	hardware []hardware.Hardware
	report   strings.Builder
	exit     func() error
}

func NewGroup(settings hardware.Settings, options Options) *Group {
	g := &Group{}

	if options.Init != nil {
		if err := options.Init(); err != nil {
			ui.Warning("Aquacomputer: unable to initialize hidapi: %v", err)
			g.report.WriteString(fmt.Sprintf("Init Error: %v\n\n", err))
			return g
		}
		g.exit = options.Exit
	}

	devices, err := options.List(options.VendorId, options.ProductId)
	if err != nil {
		ui.Warning("Aquacomputer: %v", err)
		g.report.WriteString(fmt.Sprintf("Enumeration Error: %v\n\n", err))
		return g
	}

	for index, info := range devices {
		g.report.WriteString(fmt.Sprintf("Device Path: %s\n", info.Path))
		g.report.WriteString(fmt.Sprintf("Product: %s\n", info.Product))
		g.report.WriteString(fmt.Sprintf("Serial Number: %s\n", info.SerialNumber))

		device, err := options.Open(info.Path)
		if err != nil {
			ui.Debug("Aquacomputer: unable to open %s: %v", info.Path, err)
			g.report.WriteString(fmt.Sprintf("Open Status: %v\n\n", err))
			continue
		}

		data, err := readReport(device)
		if err != nil {
			_ = device.Close()
			g.report.WriteString(fmt.Sprintf("Status: %v\n\n", err))
			continue
		}

		segment := strconv.Itoa(index)
		if len(strings.TrimSpace(info.SerialNumber)) > 0 {
			segment = hardware.SanitizeSegment(info.SerialNumber)
		}
		id := hardware.NewIdentifier("aquacomputer", "aquastreamxt", segment)

		pump := NewAquastreamXT(id, device, data, settings)
		ui.Info("Detected Aquacomputer Aquastream XT %s (firmware %d)", segment, pump.FirmwareVersion())
		g.report.WriteString("Status: OK\n\n")
		g.hardware = append(g.hardware, pump)
	}
	return g
}

func (g *Group) Hardware() []hardware.Hardware {
	return g.hardware
}

func (g *Group) Report() string {
	if g.report.Len() == 0 {
		return ""
	}
	return "USB HID Aquacomputer\n\n" + g.report.String()
}

func (g *Group) Close() {
	for _, hw := range g.hardware {
		if err := hw.Close(); err != nil {
			ui.Warning("Error closing %s: %v", hw.Identifier(), err)
		}
	}
	if g.exit != nil {
		if err := g.exit(); err != nil {
			ui.Warning("Error shutting down hidapi: %v", err)
		}
	}
}
