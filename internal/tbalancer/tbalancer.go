package tbalancer

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/transport"
	"github.com/markusressel/hwmon2go/internal/util"
)

// delay between the primary and the alternative data request
var alternativeRequestDelay = 500 * time.Millisecond

// TBalancer is a T-Balancer bigNG fan controller, optionally with
// up to two miniNG extension boards.
type TBalancer struct {
	*hardware.Base

	portIndex       int
	portName        string
	protocolVersion byte

	// guards port writes, closed and the last frames
	mu              sync.Mutex
	port            transport.Port
	closed          bool
	primaryData     []byte
	alternativeData []byte

	buffer *transport.Buffer

	digitalTemperatures   [digitalCount]*hardware.Sensor
	analogTemperatures    [analogCount]*hardware.Sensor
	sensorhubTemperatures [sensorhubCount]*hardware.Sensor
	miniNGTemperatures    [2 * miniNGCount]*hardware.Sensor
	flows                 [flowCount]*hardware.Sensor
	fans                  [fanCount]*hardware.Sensor
	controls              [fanCount]*hardware.Sensor
	miniNGFans            [2 * miniNGCount]*hardware.Sensor
	miniNGControls        [2 * miniNGCount]*hardware.Sensor
}

func offsetParameter() hardware.ParameterDescription {
	return hardware.ParameterDescription{
		Name:         "Offset [°C]",
		Description:  "Temperature offset.",
		DefaultValue: 0,
	}
}

// NewTBalancer takes ownership of the already opened port
func NewTBalancer(portIndex int, portName string, protocolVersion byte, port transport.Port, settings hardware.Settings) *TBalancer {
	id := hardware.NewIdentifier("bigng", strconv.Itoa(portIndex))
	t := &TBalancer{
		Base:            hardware.NewBase("T-Balancer bigNG", id, settings),
		portIndex:       portIndex,
		portName:        portName,
		protocolVersion: protocolVersion,
		port:            port,
		buffer:          transport.NewBuffer(port),
	}

	index := 0
	for i := range t.digitalTemperatures {
		t.digitalTemperatures[i] = hardware.NewSensor(fmt.Sprintf("Digital Sensor %d", i), index, hardware.SensorTypeTemperature, id, settings, offsetParameter())
		index++
	}
	for i := range t.analogTemperatures {
		t.analogTemperatures[i] = hardware.NewSensor(fmt.Sprintf("Analog Sensor %d", i+1), index, hardware.SensorTypeTemperature, id, settings, offsetParameter())
		index++
	}
	for i := range t.sensorhubTemperatures {
		t.sensorhubTemperatures[i] = hardware.NewSensor(fmt.Sprintf("Sensorhub Sensor %d", i), index, hardware.SensorTypeTemperature, id, settings, offsetParameter())
		index++
	}
	for i := range t.miniNGTemperatures {
		name := fmt.Sprintf("miniNG #%d Sensor %d", i/2+1, i%2+1)
		t.miniNGTemperatures[i] = hardware.NewSensor(name, index, hardware.SensorTypeTemperature, id, settings, offsetParameter())
		index++
	}

	for i := range t.flows {
		t.flows[i] = hardware.NewSensor(fmt.Sprintf("Flowmeter %d", i+1), i, hardware.SensorTypeFlow, id, settings,
			hardware.ParameterDescription{
				Name:         "Impulse Rate",
				Description:  "The impulse rate of the flowmeter in pulses/L",
				DefaultValue: defaultImpulseRate,
			})
	}

	for i := range t.controls {
		t.controls[i] = hardware.NewSensor(fmt.Sprintf("Fan Channel %d", i), i, hardware.SensorTypeControl, id, settings)
	}
	for i := range t.miniNGControls {
		name := fmt.Sprintf("miniNG #%d Fan Channel %d", i/2+1, i%2+1)
		t.miniNGControls[i] = hardware.NewSensor(name, fanCount+i, hardware.SensorTypeControl, id, settings)
		t.miniNGFans[i] = hardware.NewSensor(name, fanCount+i, hardware.SensorTypeFan, id, settings)
	}

	_ = t.buffer.Purge()
	return t
}

func (t *TBalancer) Type() hardware.HardwareType {
	return hardware.HardwareTypeTBalancer
}

func (t *TBalancer) PortName() string {
	return t.portName
}

func (t *TBalancer) ProtocolVersion() byte {
	return t.protocolVersion
}

// Update decodes all complete frames received since the last call and
// requests new data.
func (t *TBalancer) Update() error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return transport.ErrClosed
	}

	if _, err := t.buffer.Fill(); err != nil {
		return fmt.Errorf("unable to read from %s: %w", t.portName, err)
	}

	for t.buffer.Available() >= frameLength {
		if t.buffer.Peek(0) != startFlag {
			if err := t.buffer.Purge(); err != nil {
				return fmt.Errorf("unable to purge %s: %w", t.portName, err)
			}
			break
		}
		t.decode(t.buffer.Take(frameLength))
	}

	if t.buffer.Available() == 1 {
		t.buffer.Discard(1)
	}

	return t.requestData()
}

func (t *TBalancer) requestData() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return transport.ErrClosed
	}
	if _, err := t.port.Write([]byte{requestPrimary}); err != nil {
		return fmt.Errorf("unable to write to %s: %w", t.portName, err)
	}

	time.AfterFunc(alternativeRequestDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed {
			return
		}
		_, _ = t.port.Write([]byte{requestAlternative})
	})
	return nil
}

func (t *TBalancer) decode(data []byte) {
	class := data[offsetClass]
	switch {
	case isBigNG(class):
		if data[offsetProtocolVersion] != t.protocolVersion {
			return
		}
		t.mu.Lock()
		t.primaryData = data
		t.mu.Unlock()
		t.decodePrimary(data)
	case class == classMiniNG:
		t.mu.Lock()
		t.alternativeData = data
		t.mu.Unlock()
		t.decodeMiniNG(data, 0)
		if data[miniNGSecondClassPos] == classMiniNG {
			t.decodeMiniNG(data, 1)
		}
	}
}

func (t *TBalancer) setTemperature(sensor *hardware.Sensor, raw byte) {
	if raw == 0 {
		t.DeactivateSensor(sensor)
		return
	}
	sensor.SetValue(temperatureValue(raw, sensor.Parameter(0).Value()))
	t.ActivateSensor(sensor)
}

func (t *TBalancer) decodePrimary(data []byte) {
	for i, sensor := range t.digitalTemperatures {
		t.setTemperature(sensor, data[offsetDigital+i])
	}
	for i, sensor := range t.analogTemperatures {
		t.setTemperature(sensor, data[offsetAnalogTemp+i])
	}
	for i, sensor := range t.sensorhubTemperatures {
		t.setTemperature(sensor, data[offsetSensorhub+i])
	}

	for i, sensor := range t.flows {
		divisor := data[offsetFlowDivisor]
		if divisor == 0 {
			t.DeactivateSensor(sensor)
			continue
		}
		pulses := flowPulses(data[offsetFlowPulses+i], divisor)
		sensor.SetValue(flowRate(pulses, sensor.Parameter(0).Value()))
		t.ActivateSensor(sensor)
	}

	for i := range t.fans {
		if t.fans[i] == nil {
			t.fans[i] = hardware.NewSensor(fmt.Sprintf("Fan Channel %d", i), i, hardware.SensorTypeFan,
				t.Identifier(), t.Settings(),
				hardware.ParameterDescription{
					Name:         "MaxRPM",
					Description:  "Maximum revolutions per minute (RPM) of the fan.",
					DefaultValue: maxRpm(data, i),
				})
		}

		factor := fanFactor(data, i)
		t.fans[i].SetValue(t.fans[i].Parameter(0).Value() * factor)
		t.ActivateSensor(t.fans[i])

		t.controls[i].SetValue(100 * factor)
		t.ActivateSensor(t.controls[i])
	}
}

func (t *TBalancer) decodeMiniNG(data []byte, number int) {
	offset := 1 + number*miniNGFrameLength
	if data[offset+miniNGOffsetEnd] != endFlag {
		return
	}

	for i := 0; i < miniNGCount; i++ {
		t.setTemperature(t.miniNGTemperatures[number*miniNGCount+i], data[offset+miniNGOffsetTemp+i])
	}

	for i := 0; i < miniNGCount; i++ {
		fan := t.miniNGFans[number*miniNGCount+i]
		fan.SetValue(20 * float32(data[offset+miniNGOffsetFan+2*i]))
		t.ActivateSensor(fan)

		control := t.miniNGControls[number*miniNGCount+i]
		control.SetValue(float32(data[offset+miniNGOffsetControl+i]))
		t.ActivateSensor(control)
	}
}

func (t *TBalancer) Report() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("T-Balancer bigNG\n\n")
	sb.WriteString(fmt.Sprintf("Port Index: %d\n", t.portIndex))
	sb.WriteString(fmt.Sprintf("Port Name: %s\n", t.portName))
	sb.WriteString(fmt.Sprintf("Protocol Version: 0x%02X\n", t.protocolVersion))
	sb.WriteString("\n")

	if t.primaryData != nil {
		sb.WriteString("Primary System Information Answer\n\n")
		sb.WriteString(util.FormatHexTable(t.primaryData))
		sb.WriteString("\n")
	}
	if t.alternativeData != nil {
		sb.WriteString("Alternative System Information Answer\n\n")
		sb.WriteString(util.FormatHexTable(t.alternativeData))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Close stops pending requests and closes the port
func (t *TBalancer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.port.Close()
}
