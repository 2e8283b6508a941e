package aquacomputer

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/transport"
)

const (
	reportId     = 0x04
	reportLength = 64

	untestedFirmwareVersion = 1008
)

// operating mode flags
const (
	modePumpAdvanced  = 1 << 0
	modeFanAmplifier  = 1 << 1
	modeFanController = 1 << 2
)

// AquastreamXT is an Aquacomputer Aquastream XT pump reporting its state
// through a HID feature report.
type AquastreamXT struct {
	*hardware.Base

	mu     sync.Mutex
	device transport.HidDevice
	closed bool

	firmwareVersion uint16
	variant         string
	status          string

	externalFanVoltage  *hardware.Sensor
	pumpVoltage         *hardware.Sensor
	pumpPower           *hardware.Sensor
	fanVrmTemperature   *hardware.Sensor
	externalTemperature *hardware.Sensor
	waterTemperature    *hardware.Sensor
	pumpFrequency       *hardware.Sensor
	pumpMaxFrequency    *hardware.Sensor
	pumpFlow            *hardware.Sensor
	externalFanRpm      *hardware.Sensor
	fanControl          *hardware.Sensor
}

// NewAquastreamXT decodes the given report and takes ownership of the device.
// The report must have passed validation.
func NewAquastreamXT(id hardware.Identifier, device transport.HidDevice, report []byte, settings hardware.Settings) *AquastreamXT {
	a := &AquastreamXT{
		Base:   hardware.NewBase("Aquacomputer Aquastream XT", id, settings),
		device: device,
	}

	a.firmwareVersion = binary.LittleEndian.Uint16(report[50:52])
	a.variant = variantName(report[33])
	a.status = "OK"
	if a.firmwareVersion < untestedFirmwareVersion {
		a.status = "Untested Firmware Version"
	}

	a.externalFanVoltage = hardware.NewSensor("External Fan", 1, hardware.SensorTypeVoltage, id, settings)
	a.pumpVoltage = hardware.NewSensor("Pump", 2, hardware.SensorTypeVoltage, id, settings)
	a.pumpPower = hardware.NewSensor("Pump Power", 0, hardware.SensorTypePower, id, settings)
	a.fanVrmTemperature = hardware.NewSensor("External Fan VRM", 0, hardware.SensorTypeTemperature, id, settings)
	a.externalTemperature = hardware.NewSensor("External", 1, hardware.SensorTypeTemperature, id, settings)
	a.waterTemperature = hardware.NewSensor("Internal Water", 2, hardware.SensorTypeTemperature, id, settings)
	a.pumpFrequency = hardware.NewSensor("Pump Frequency", 0, hardware.SensorTypeFrequency, id, settings)
	a.pumpMaxFrequency = hardware.NewSensor("Pump Max Frequency", 1, hardware.SensorTypeFrequency, id, settings)
	a.pumpFlow = hardware.NewSensor("Pump", 0, hardware.SensorTypeFlow, id, settings)
	a.externalFanRpm = hardware.NewSensor("External Fan", 1, hardware.SensorTypeFan, id, settings)
	a.fanControl = hardware.NewSensor("External Fan", 0, hardware.SensorTypeControl, id, settings)

	for _, sensor := range []*hardware.Sensor{
		a.externalFanVoltage, a.pumpVoltage, a.pumpPower,
		a.fanVrmTemperature, a.externalTemperature, a.waterTemperature,
		a.pumpFrequency, a.pumpMaxFrequency, a.pumpFlow,
		a.externalFanRpm, a.fanControl,
	} {
		a.ActivateSensor(sensor)
	}

	a.decode(report)
	return a
}

func variantName(mode byte) string {
	switch {
	case mode&modePumpAdvanced != 0:
		return "Ultra + Internal Flow Sensor"
	case mode&modeFanController != 0:
		return "Ultra"
	case mode&modeFanAmplifier != 0:
		return "Advanced"
	}
	return "Standard"
}

// readReport performs a single feature read and checks the report id
func readReport(device transport.HidDevice) ([]byte, error) {
	data := make([]byte, reportLength)
	data[0] = reportId
	n, err := device.GetFeatureReport(data)
	if err != nil {
		return nil, fmt.Errorf("unable to read feature report: %w", err)
	}
	if n < reportLength {
		return nil, fmt.Errorf("feature report too short: %d bytes", n)
	}
	if data[0] != reportId {
		return nil, fmt.Errorf("unexpected report id: 0x%02X", data[0])
	}
	return data, nil
}

func u16(data []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(data[offset : offset+2])
}

func i16(data []byte, offset int) int16 {
	return int16(u16(data, offset))
}

func u32(data []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(data[offset : offset+4])
}

func setFrequency(sensor *hardware.Sensor, divisor float32) {
	if divisor == 0 {
		sensor.ClearValue()
		return
	}
	sensor.SetValue(750000 / divisor)
}

func (a *AquastreamXT) decode(data []byte) {
	a.externalFanVoltage.SetValue(float32(u16(data, 7)) / 61)
	pumpVoltage := float32(u16(data, 9)) / 61
	a.pumpVoltage.SetValue(pumpVoltage)
	a.pumpPower.SetValue(pumpVoltage * float32(i16(data, 11)) / 625)

	a.fanVrmTemperature.SetValue(float32(u16(data, 13)) / 100)
	a.externalTemperature.SetValue(float32(u16(data, 15)) / 100)
	a.waterTemperature.SetValue(float32(u16(data, 17)) / 100)

	setFrequency(a.pumpFrequency, float32(i16(data, 19)))
	setFrequency(a.pumpMaxFrequency, float32(u16(data, 21)))

	a.pumpFlow.SetValue(float32(u32(data, 23)))
	a.externalFanRpm.SetValue(float32(u32(data, 27)))
	a.fanControl.SetValue(100 / 255.0 * float32(data[31]))
}

func (a *AquastreamXT) Type() hardware.HardwareType {
	return hardware.HardwareTypeCooler
}

func (a *AquastreamXT) FirmwareVersion() uint16 {
	return a.firmwareVersion
}

// Update reads a new feature report, a report with a foreign id is ignored
func (a *AquastreamXT) Update() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return transport.ErrClosed
	}

	data := make([]byte, reportLength)
	data[0] = reportId
	n, err := a.device.GetFeatureReport(data)
	if err != nil {
		return fmt.Errorf("unable to read feature report: %w", err)
	}
	if n < reportLength || data[0] != reportId {
		return nil
	}
	a.decode(data)
	return nil
}

func (a *AquastreamXT) Report() string {
	var sb strings.Builder
	sb.WriteString("Aquacomputer Aquastream XT\n\n")
	sb.WriteString(fmt.Sprintf("Firmware Version: %d\n", a.firmwareVersion))
	sb.WriteString(fmt.Sprintf("Variant: %s\n", a.variant))
	sb.WriteString(fmt.Sprintf("Status: %s\n", a.status))
	sb.WriteString("\n")
	return sb.String()
}

func (a *AquastreamXT) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.device.Close()
}
