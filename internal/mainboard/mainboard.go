package mainboard

import (
	"fmt"
	"strings"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/smbios"
)

// Mainboard is the root hardware of the local machine, the detected chips
// are its sub-hardware.
type Mainboard struct {
	*hardware.Base

	table  *smbios.Table
	chips  []*Chip
	access hardware.RegisterAccess
}

func NewMainboard(table *smbios.Table, chips []*Chip, access hardware.RegisterAccess, settings hardware.Settings) *Mainboard {
	if table == nil {
		table = &smbios.Table{}
	}
	if access == nil {
		access = hardware.NoRegisterAccess{}
	}
	return &Mainboard{
		Base:   hardware.NewBase(boardName(table), hardware.NewIdentifier("mainboard"), settings),
		table:  table,
		chips:  chips,
		access: access,
	}
}

func boardName(table *smbios.Table) string {
	if table.Board == nil {
		return "Unknown"
	}
	name := strings.TrimSpace(table.Board.ManufacturerName + " " + table.Board.ProductName)
	if len(name) <= 0 {
		return "Unknown"
	}
	return name
}

func (m *Mainboard) Type() hardware.HardwareType {
	return hardware.HardwareTypeMainboard
}

func (m *Mainboard) SubHardware() []hardware.Hardware {
	result := make([]hardware.Hardware, len(m.chips))
	for i, chip := range m.chips {
		result[i] = chip
	}
	return result
}

// Update does nothing, the chips are updated on their own
func (m *Mainboard) Update() error {
	return nil
}

func (m *Mainboard) Report() string {
	var sb strings.Builder
	sb.WriteString("Mainboard\n\n")
	sb.WriteString(m.table.Report())
	sb.WriteString("\n")
	if m.access.IsAvailable() {
		sb.WriteString("Register Access: available\n")
	} else {
		sb.WriteString("Register Access: unavailable\n")
	}
	sb.WriteString(fmt.Sprintf("Chips: %d\n\n", len(m.chips)))
	return sb.String()
}

func (m *Mainboard) Close() error {
	for _, chip := range m.chips {
		_ = chip.Close()
	}
	return nil
}
