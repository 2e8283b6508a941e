package computer_test

import (
	"testing"

	"github.com/markusressel/hwmon2go/internal/computer"
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/tbalancer"
	"github.com/markusressel/hwmon2go/internal/testingutils"
	"github.com/markusressel/hwmon2go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bigNGValues struct {
	temperature byte
	flowPulses  byte
	pwm         byte
	maxRpmHi    byte
}

// bigNG frame with the first digital temperature, the first flow meter
// and the first fan channel in pwm mode set
func bigNGFrame(values bigNGValues) []byte {
	data := make([]byte, 285)
	data[0] = 0x64
	data[1] = 0xFF
	data[274] = 0x2A
	data[238] = values.temperature
	data[231] = values.flowPulses
	data[234] = 4
	data[137] = values.pwm
	data[148] = 0xE8
	data[149] = values.maxRpmHi
	return data
}

func assertSensor(t *testing.T, c *computer.Computer, id string, value float32, min float32, max float32) {
	sensor, ok := c.Sensor(id)
	require.True(t, ok, id)
	current, _ := sensor.Value()
	low, _ := sensor.Min()
	high, _ := sensor.Max()
	assert.InDelta(t, value, current, 0.01, id)
	assert.InDelta(t, min, low, 0.01, id)
	assert.InDelta(t, max, high, 0.01, id)
}

func TestComputer_TBalancerUpdates(t *testing.T) {
	// GIVEN
	frames := []bigNGValues{
		// answers the discovery request
		{temperature: 200, flowPulses: 100, pwm: 50, maxRpmHi: 0x03},
		{temperature: 200, flowPulses: 100, pwm: 50, maxRpmHi: 0x03},
		{temperature: 210, flowPulses: 50, pwm: 25, maxRpmHi: 0x07},
		{temperature: 190, flowPulses: 75, pwm: 40, maxRpmHi: 0x07},
	}
	requests := 0
	port := testingutils.NewFakePort()
	port.OnWrite = func(data []byte) []byte {
		if len(data) != 1 || data[0] != 0x38 || requests >= len(frames) {
			return nil
		}
		frame := bigNGFrame(frames[requests])
		requests++
		return frame
	}

	options := tbalancer.DefaultOptions()
	options.List = func(vendorId uint16, productId uint16) ([]transport.PortInfo, error) {
		return []transport.PortInfo{{Name: "/dev/ttyUSB0"}}, nil
	}
	options.Open = func(name string, baudRate int) (transport.Port, error) {
		return port, nil
	}

	c := computer.New(hardware.NewMemorySettings(), func(settings hardware.Settings) computer.Group {
		return tbalancer.NewGroup(settings, options)
	})
	var added []string
	c.Subscribe(func(event computer.Event) {
		if event.Kind == computer.SensorAdded {
			added = append(added, event.Sensor.Identifier().String())
		}
	})
	c.Open()
	defer c.Close()
	require.Len(t, c.Hardware(), 1)

	// WHEN
	for i := 0; i < 4; i++ {
		c.Update()
	}

	// THEN
	assertSensor(t, c, "/bigng/0/temperature/0", 95, 95, 105)
	// 4 * pulses / divisor pulses per second at 509 pulses/L
	assertSensor(t, c, "/bigng/0/flow/0", 530.452, 353.635, 707.269)
	// max rpm of 0x03E8 * 11.5 is taken from the first decoded frame
	assertSensor(t, c, "/bigng/0/fan/0", 9200, 5750, 11500)
	assertSensor(t, c, "/bigng/0/control/0", 80, 50, 100)

	assert.Contains(t, added, "/bigng/0/temperature/0")
	assert.Contains(t, added, "/bigng/0/flow/0")
	assert.Contains(t, added, "/bigng/0/fan/0")
	assert.Contains(t, added, "/bigng/0/control/0")
	assert.Contains(t, c.Report(), "T-Balancer bigNG")
}
