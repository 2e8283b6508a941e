package mainboard

import (
	"fmt"
	"path/filepath"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/util"
	"github.com/md14454/gosensors"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

// Channel is a single lm-sensors input of a chip
type Channel struct {
	Label string
	Type  hardware.SensorType
	Read  func() float64
}

// ChipInfo describes a detected lm-sensors chip
type ChipInfo struct {
	Name     string
	Path     string
	Channels []Channel
}

// DetectChips lists all chips known to libsensors with at least one
// temperature or fan input. The returned channels read through libsensors,
// so gosensors has to stay initialized while they are in use.
func DetectChips() []ChipInfo {
	chips := gosensors.GetDetectedChips()

	var result []ChipInfo
	for _, chip := range chips {
		channels := getChannels(chip)
		if len(channels) <= 0 {
			continue
		}
		result = append(result, ChipInfo{
			Name:     computeIdentifier(chip),
			Path:     chip.Path,
			Channels: channels,
		})
	}
	return result
}

func getChannels(chip gosensors.Chip) []Channel {
	var channels []Channel

	for _, feature := range chip.GetFeatures() {
		var sensorType hardware.SensorType
		var inputType gosensors.SubFeatureType
		switch feature.Type {
		case gosensors.FeatureTypeTemp:
			sensorType = hardware.SensorTypeTemperature
			inputType = gosensors.SubFeatureTypeTempInput
		case gosensors.FeatureTypeFan:
			sensorType = hardware.SensorTypeFan
			inputType = gosensors.SubFeatureTypeFanInput
		default:
			continue
		}

		input, ok := findSubFeature(feature.GetSubFeatures(), inputType)
		if !ok {
			continue
		}

		channels = append(channels, Channel{
			Label: util.GetLabel(chip.Path, input.Name),
			Type:  sensorType,
			Read:  input.GetValue,
		})
	}
	return channels
}

func findSubFeature(subfeatures []gosensors.SubFeature, input gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, a := range subfeatures {
		if a.Type == input {
			return a, true
		}
	}
	return gosensors.SubFeature{}, false
}

func computeIdentifier(chip gosensors.Chip) (name string) {
	name = chip.Prefix

	devicePath := chip.Path
	if len(name) <= 0 {
		name = util.GetDeviceName(devicePath)
	}

	if len(name) <= 0 {
		_, name = filepath.Split(devicePath)
	}

	identifier := name
	switch chip.Bus.Type {
	case BusTypeIsa:
		identifier = fmt.Sprintf("%s-isa-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypePci:
		identifier = fmt.Sprintf("%s-pci-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypeAcpi:
		identifier = fmt.Sprintf("%s-acpi-%d", identifier, chip.Bus.Nr)
	}

	return identifier
}
