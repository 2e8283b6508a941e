package tbalancer

import (
	"testing"
	"time"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/testingutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProtocolVersion = 0x2A

func primaryFrame() []byte {
	data := make([]byte, frameLength)
	data[0] = startFlag
	data[offsetClass] = classBigNG
	data[offsetProtocolVersion] = testProtocolVersion
	return data
}

func miniNGFrame() []byte {
	data := make([]byte, frameLength)
	data[0] = startFlag
	data[offsetClass] = classMiniNG
	data[1+miniNGOffsetEnd] = endFlag
	return data
}

func newTestTBalancer(t *testing.T) (*TBalancer, *testingutils.FakePort) {
	alternativeRequestDelay = 10 * time.Millisecond
	port := testingutils.NewFakePort()
	device := NewTBalancer(0, "/dev/ttyUSB0", testProtocolVersion, port, hardware.NewMemorySettings())
	t.Cleanup(func() {
		_ = device.Close()
	})
	return device, port
}

func value(t *testing.T, sensor *hardware.Sensor) float32 {
	v, ok := sensor.Value()
	require.True(t, ok, "sensor %s has no value", sensor.Identifier())
	return v
}

func TestTBalancer_Identifier(t *testing.T) {
	device, _ := newTestTBalancer(t)
	assert.Equal(t, "/bigng/0", device.Identifier().String())
	assert.Equal(t, "/bigng/0/temperature/8", device.analogTemperatures[0].Identifier().String())
	assert.Equal(t, "/bigng/0/temperature/18", device.miniNGTemperatures[0].Identifier().String())
	assert.Equal(t, "/bigng/0/control/4", device.miniNGControls[0].Identifier().String())
	assert.Equal(t, hardware.HardwareTypeTBalancer, device.Type())
}

func TestTBalancer_DecodePrimaryFrame(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	frame := primaryFrame()
	frame[offsetDigital] = 200
	frame[offsetFlowPulses] = 40
	frame[offsetFlowDivisor] = 10
	frame[offsetPwm] = 50
	frame[offsetMaxRpm] = 0xE8
	frame[offsetMaxRpm+1] = 0x03
	frame[offsetFanMode] = 0x02
	frame[offsetAnalog+1] = 50
	port.Feed(frame...)

	// WHEN
	err := device.Update()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, float32(100), value(t, device.digitalTemperatures[0]))
	assert.InDelta(t, 16*3600.0/509.0, value(t, device.flows[0]), 0.01)
	assert.InDelta(t, 113.16, value(t, device.flows[0]), 0.01)
	assert.Equal(t, float32(0), value(t, device.flows[1]))

	require.NotNil(t, device.fans[0])
	assert.Equal(t, float32(11500), device.fans[0].Parameter(0).DefaultValue())
	assert.InDelta(t, 11500, value(t, device.fans[0]), 0.01)
	assert.InDelta(t, 100, value(t, device.controls[0]), 0.01)
	assert.InDelta(t, 50, value(t, device.controls[1]), 0.01)

	assert.True(t, device.IsActive(device.digitalTemperatures[0]))
	assert.False(t, device.IsActive(device.digitalTemperatures[1]))
	// 1 temperature, 2 flows, 4 fans, 4 controls
	assert.Len(t, device.Sensors(), 11)
	assert.Contains(t, device.Report(), "Primary System Information Answer")
}

func TestTBalancer_WritesRequests(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	alternativeRequestDelay = 50 * time.Millisecond

	// WHEN
	err := device.Update()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []byte{requestPrimary}, port.WrittenBytes())
	assert.Eventually(t, func() bool {
		written := port.WrittenBytes()
		return len(written) == 2 && written[1] == requestAlternative
	}, time.Second, 5*time.Millisecond)
}

func TestTBalancer_CloseCancelsAlternativeRequest(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	alternativeRequestDelay = 30 * time.Millisecond
	require.NoError(t, device.Update())

	// WHEN
	require.NoError(t, device.Close())
	time.Sleep(60 * time.Millisecond)

	// THEN
	assert.Equal(t, []byte{requestPrimary}, port.WrittenBytes())
	assert.True(t, port.IsClosed())
	assert.Error(t, device.Update())
}

func TestTBalancer_WrongStartFlagPurges(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	frame := primaryFrame()
	frame[0] = 0x00
	frame[offsetDigital] = 200
	port.Feed(frame...)
	port.Feed(make([]byte, 20)...)
	resets := port.InputResets

	// WHEN
	err := device.Update()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 0, device.buffer.Available())
	assert.Equal(t, resets+1, port.InputResets)
	assert.Empty(t, device.Sensors())
	_, ok := device.digitalTemperatures[0].Value()
	assert.False(t, ok)
}

func TestTBalancer_ProtocolVersionMismatch(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	frame := primaryFrame()
	frame[offsetProtocolVersion] = 0x2B
	frame[offsetDigital] = 200
	port.Feed(frame...)

	// WHEN
	err := device.Update()

	// THEN
	require.NoError(t, err)
	assert.Empty(t, device.Sensors())
}

func TestTBalancer_StrayByteIsDropped(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	port.Feed(primaryFrame()...)
	port.Feed(0x42)

	// WHEN
	err := device.Update()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 0, device.buffer.Available())
}

func TestTBalancer_MinMaxOverFrames(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	first := primaryFrame()
	first[offsetDigital] = 200
	second := primaryFrame()
	second[offsetDigital] = 210

	// WHEN
	port.Feed(first...)
	require.NoError(t, device.Update())
	port.Feed(second...)
	require.NoError(t, device.Update())

	// THEN
	sensor := device.digitalTemperatures[0]
	min, _ := sensor.Min()
	max, _ := sensor.Max()
	assert.Equal(t, float32(100), min)
	assert.Equal(t, float32(105), max)
	assert.Equal(t, float32(105), value(t, sensor))
}

func TestTBalancer_TemperatureOffset(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	device.digitalTemperatures[0].Parameter(0).SetValue(2)
	frame := primaryFrame()
	frame[offsetDigital] = 200
	port.Feed(frame...)

	// WHEN
	require.NoError(t, device.Update())

	// THEN
	assert.Equal(t, float32(102), value(t, device.digitalTemperatures[0]))
}

func TestTBalancer_MissingTemperatureNeedsTwoFrames(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	frame := primaryFrame()
	frame[offsetDigital] = 200
	port.Feed(frame...)
	require.NoError(t, device.Update())
	sensor := device.digitalTemperatures[0]

	// WHEN
	port.Feed(primaryFrame()...)
	require.NoError(t, device.Update())

	// THEN
	assert.True(t, device.IsActive(sensor))

	// WHEN
	port.Feed(primaryFrame()...)
	require.NoError(t, device.Update())

	// THEN
	assert.False(t, device.IsActive(sensor))
}

func TestTBalancer_DecodeMiniNG(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	frame := miniNGFrame()
	frame[1+miniNGOffsetTemp] = 60
	frame[1+miniNGOffsetFan] = 100
	frame[1+miniNGOffsetControl] = 55
	port.Feed(frame...)

	// WHEN
	require.NoError(t, device.Update())

	// THEN
	assert.Equal(t, float32(30), value(t, device.miniNGTemperatures[0]))
	assert.Equal(t, float32(2000), value(t, device.miniNGFans[0]))
	assert.Equal(t, float32(55), value(t, device.miniNGControls[0]))
	assert.False(t, device.IsActive(device.miniNGFans[2]))
	assert.Contains(t, device.Report(), "Alternative System Information Answer")
}

func TestTBalancer_DecodeSecondMiniNG(t *testing.T) {
	// GIVEN
	device, port := newTestTBalancer(t)
	frame := miniNGFrame()
	frame[miniNGSecondClassPos] = classMiniNG
	frame[1+miniNGFrameLength+miniNGOffsetEnd] = endFlag
	frame[1+miniNGFrameLength+miniNGOffsetTemp+1] = 80
	port.Feed(frame...)

	// WHEN
	require.NoError(t, device.Update())

	// THEN
	assert.Equal(t, float32(40), value(t, device.miniNGTemperatures[3]))
	assert.True(t, device.IsActive(device.miniNGFans[2]))
}
