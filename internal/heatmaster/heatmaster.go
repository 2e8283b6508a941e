package heatmaster

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/transport"
)

const (
	deviceSystem      = 0
	deviceFans        = 32
	deviceTemperature = 48
	deviceFlows       = 64
	deviceRelays      = 80

	maxFans         = 4
	maxTemperatures = 6
	maxFlows        = 1
	maxRelays       = 1

	// raw temperature value of a disconnected probe
	temperatureMissing = -32768

	// push rate in Hz
	pushRate = "2"
)

// Heatmaster is a Heatmaster fan controller speaking the addressed text
// protocol. After construction the device pushes its state periodically.
type Heatmaster struct {
	*hardware.Base

	portName string

	mu        sync.Mutex
	conn      *connection
	closed    bool
	available bool

	hardwareRevision int
	firmwareRevision int
	firmwareCRC      int

	fans         []*hardware.Sensor
	controls     []*hardware.Sensor
	temperatures []*hardware.Sensor
	flows        []*hardware.Sensor
	relays       []*hardware.Sensor
}

// NewHeatmaster queries the device configuration and takes ownership of the port
func NewHeatmaster(portName string, port transport.Port, settings hardware.Settings) *Heatmaster {
	id := hardware.NewIdentifier("heatmaster", hardware.SanitizeSegment(portName))
	h := &Heatmaster{
		Base:     hardware.NewBase("Heatmaster", id, settings),
		portName: portName,
		conn:     newConnection(port),
	}
	_ = h.conn.buffer.Purge()

	h.hardwareRevision, _ = h.conn.readInteger(deviceSystem, 'H')
	h.firmwareRevision, _ = h.conn.readInteger(deviceSystem, 'V')
	h.firmwareCRC, _ = h.conn.readInteger(deviceSystem, 'C')

	fanCount := h.readCount(deviceFans, maxFans)
	temperatureCount := h.readCount(deviceTemperature, maxTemperatures)
	flowCount := h.readCount(deviceFlows, maxFlows)
	relayCount := h.readCount(deviceRelays, maxRelays)

	for i := 0; i < fanCount; i++ {
		device := deviceFans + 1 + i
		name := h.readName(device, "Fan %d", i+1)

		fan := hardware.NewSensor(name, i, hardware.SensorTypeFan, id, settings)
		if rpm, ok := h.conn.readInteger(device, 'R'); ok {
			fan.SetValue(float32(rpm))
		}
		h.ActivateSensor(fan)
		h.fans = append(h.fans, fan)

		control := hardware.NewSensor(name, i, hardware.SensorTypeControl, id, settings)
		if pwm, ok := h.conn.readInteger(device, 'P'); ok {
			control.SetValue(pwmToPercent(pwm))
		}
		h.ActivateSensor(control)
		h.controls = append(h.controls, control)
	}

	for i := 0; i < temperatureCount; i++ {
		device := deviceTemperature + 1 + i
		name := h.readName(device, "Temperature %d", i+1)

		temperature := hardware.NewSensor(name, i, hardware.SensorTypeTemperature, id, settings)
		raw, ok := h.conn.readInteger(device, 'T')
		if ok {
			temperature.SetValue(0.1 * float32(raw))
		}
		if ok && raw != temperatureMissing {
			h.ActivateSensor(temperature)
		}
		h.temperatures = append(h.temperatures, temperature)
	}

	for i := 0; i < flowCount; i++ {
		device := deviceFlows + 1 + i
		name := h.readName(device, "Flowmeter %d", i+1)

		flow := hardware.NewSensor(name, i, hardware.SensorTypeFlow, id, settings)
		if raw, ok := h.conn.readInteger(device, 'L'); ok {
			flow.SetValue(0.1 * float32(raw))
		}
		h.ActivateSensor(flow)
		h.flows = append(h.flows, flow)
	}

	for i := 0; i < relayCount; i++ {
		device := deviceRelays + 1 + i
		name := h.readName(device, "Relay %d", i+1)

		relay := hardware.NewSensor(name, maxFans+i, hardware.SensorTypeControl, id, settings)
		if state, ok := h.conn.readInteger(device, 'S'); ok {
			relay.SetValue(100 * float32(state))
		}
		h.ActivateSensor(relay)
		h.relays = append(h.relays, relay)
	}

	_, _ = h.conn.writeField(deviceSystem, 'L', pushRate)

	h.available = h.conn.writeErr == nil
	return h
}

func (h *Heatmaster) readCount(device int, limit int) int {
	count, ok := h.conn.readInteger(device, '?')
	if !ok || count < 0 {
		return 0
	}
	return min(count, limit)
}

func (h *Heatmaster) readName(device int, fallback string, number int) string {
	name, ok := h.conn.readString(device, 'C')
	if !ok || len(name) <= 0 {
		return fmt.Sprintf(fallback, number)
	}
	return name
}

func pwmToPercent(pwm int) float32 {
	return 100 * float32(pwm) / 255
}

func (h *Heatmaster) Type() hardware.HardwareType {
	return hardware.HardwareTypeHeatmaster
}

func (h *Heatmaster) PortName() string {
	return h.portName
}

// Update applies all complete push lines received since the last call,
// a partial line stays buffered.
func (h *Heatmaster) Update() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return transport.ErrClosed
	}
	if !h.available {
		return errors.New("device unavailable")
	}

	if _, err := h.conn.buffer.Fill(); err != nil {
		return fmt.Errorf("unable to read from %s: %w", h.portName, err)
	}

	for {
		index := h.conn.buffer.IndexByte(lineTerminator)
		if index < 0 {
			return nil
		}
		line := h.conn.buffer.Take(index)
		h.conn.buffer.Discard(1)
		h.processLine(string(line))
	}
}

func (h *Heatmaster) processLine(line string) {
	device, groups, ok := parsePushLine(line)
	if !ok {
		return
	}

	for _, group := range groups {
		switch device {
		case deviceFans:
			if len(group) == 3 && inRange(group[0], h.fans) {
				h.fans[group[0]-1].SetValue(float32(group[1]))
				h.controls[group[0]-1].SetValue(pwmToPercent(group[2]))
			}
		case deviceTemperature:
			if len(group) == 2 && inRange(group[0], h.temperatures) {
				h.temperatures[group[0]-1].SetValue(0.1 * float32(group[1]))
			}
		case deviceFlows:
			if len(group) == 3 && inRange(group[0], h.flows) {
				h.flows[group[0]-1].SetValue(0.1 * float32(group[1]))
			}
		case deviceRelays:
			if len(group) == 2 && inRange(group[0], h.relays) {
				h.relays[group[0]-1].SetValue(100 * float32(group[1]))
			}
		}
	}
}

// inRange checks a 1-based device index
func inRange(index int, sensors []*hardware.Sensor) bool {
	return index >= 1 && index <= len(sensors)
}

func (h *Heatmaster) Report() string {
	var sb strings.Builder
	sb.WriteString("Heatmaster\n\n")
	sb.WriteString(fmt.Sprintf("Port: %s\n", h.portName))
	sb.WriteString(fmt.Sprintf("Hardware Revision: %d\n", h.hardwareRevision))
	sb.WriteString(fmt.Sprintf("Firmware Revision: %d\n", h.firmwareRevision))
	sb.WriteString(fmt.Sprintf("Firmware CRC: %d\n", h.firmwareCRC))
	sb.WriteString("\n")
	return sb.String()
}

func (h *Heatmaster) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.conn.port.Close()
}
