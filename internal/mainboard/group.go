package mainboard

import (
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/smbios"
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/md14454/gosensors"
)

type Options struct {
	SmbiosPath     string
	Hwmon          bool
	RegisterAccess hardware.RegisterAccess

	// Init, Detect and Cleanup wrap libsensors
	Init    func()
	Detect  func() []ChipInfo
	Cleanup func()
}

func DefaultOptions() Options {
	return Options{
		SmbiosPath:     smbios.DefaultTablePath,
		Hwmon:          true,
		RegisterAccess: hardware.NoRegisterAccess{},
		Init:           gosensors.Init,
		Detect:         DetectChips,
		Cleanup:        gosensors.Cleanup,
	}
}

// Group provides the mainboard of the local machine
type Group struct {
	mainboard *Mainboard
	cleanup   func()
}

func NewGroup(settings hardware.Settings, options Options) *Group {
	g := &Group{}

	table, err := smbios.Read(options.SmbiosPath)
	if err != nil {
		ui.Warning("Unable to read SMBIOS table: %v", err)
		table = &smbios.Table{}
	}

	var chips []*Chip
	if options.Hwmon && options.Detect != nil {
		if options.Init != nil {
			options.Init()
			g.cleanup = options.Cleanup
		}
		for _, info := range options.Detect() {
			ui.Debug("Detected hwmon chip %s (%d inputs)", info.Name, len(info.Channels))
			chips = append(chips, NewChip(info, settings))
		}
	}

	g.mainboard = NewMainboard(table, chips, options.RegisterAccess, settings)
	return g
}

func (g *Group) Hardware() []hardware.Hardware {
	return []hardware.Hardware{g.mainboard}
}

func (g *Group) Report() string {
	return ""
}

func (g *Group) Close() {
	_ = g.mainboard.Close()
	if g.cleanup != nil {
		g.cleanup()
	}
}
