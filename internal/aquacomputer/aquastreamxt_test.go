package aquacomputer

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/testingutils"
	"github.com/markusressel/hwmon2go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() []byte {
	data := make([]byte, reportLength)
	data[0] = reportId
	binary.LittleEndian.PutUint16(data[7:], 732) // 12 V
	binary.LittleEndian.PutUint16(data[9:], 610) // 10 V
	binary.LittleEndian.PutUint16(data[11:], 1250)
	binary.LittleEndian.PutUint16(data[13:], 3550)
	binary.LittleEndian.PutUint16(data[15:], 2800)
	binary.LittleEndian.PutUint16(data[17:], 3012)
	binary.LittleEndian.PutUint16(data[19:], 10000)
	binary.LittleEndian.PutUint16(data[21:], 7500)
	binary.LittleEndian.PutUint32(data[23:], 95)
	binary.LittleEndian.PutUint32(data[27:], 1100)
	data[31] = 255
	data[33] = modeFanController
	binary.LittleEndian.PutUint16(data[50:], 1030)
	return data
}

func value(t *testing.T, sensor *hardware.Sensor) float32 {
	v, ok := sensor.Value()
	require.True(t, ok, "sensor %s has no value", sensor.Identifier())
	return v
}

func newTestPump(report []byte) (*AquastreamXT, *testingutils.FakeHidDevice) {
	device := &testingutils.FakeHidDevice{Report: report}
	id := hardware.NewIdentifier("aquacomputer", "aquastreamxt", "0")
	return NewAquastreamXT(id, device, report, nil), device
}

func TestAquastreamXT_Decode(t *testing.T) {
	// WHEN
	pump, _ := newTestPump(testReport())

	// THEN
	assert.InDelta(t, 12, value(t, pump.externalFanVoltage), 0.001)
	assert.InDelta(t, 10, value(t, pump.pumpVoltage), 0.001)
	assert.InDelta(t, 20, value(t, pump.pumpPower), 0.001)
	assert.InDelta(t, 35.5, value(t, pump.fanVrmTemperature), 0.001)
	assert.InDelta(t, 28, value(t, pump.externalTemperature), 0.001)
	assert.InDelta(t, 30.12, value(t, pump.waterTemperature), 0.001)
	assert.InDelta(t, 75, value(t, pump.pumpFrequency), 0.001)
	assert.InDelta(t, 100, value(t, pump.pumpMaxFrequency), 0.001)
	assert.Equal(t, float32(95), value(t, pump.pumpFlow))
	assert.Equal(t, float32(1100), value(t, pump.externalFanRpm))
	assert.InDelta(t, 100, value(t, pump.fanControl), 0.001)

	assert.Equal(t, uint16(1030), pump.FirmwareVersion())
	assert.Contains(t, pump.Report(), "Variant: Ultra")
	assert.Contains(t, pump.Report(), "Status: OK")
	assert.Len(t, pump.Sensors(), 11)
}

func TestAquastreamXT_ZeroFrequencyDivisor(t *testing.T) {
	// GIVEN
	report := testReport()
	report[19] = 0
	report[20] = 0

	// WHEN
	pump, _ := newTestPump(report)

	// THEN
	_, ok := pump.pumpFrequency.Value()
	assert.False(t, ok)
}

func TestAquastreamXT_UntestedFirmware(t *testing.T) {
	// GIVEN
	report := testReport()
	binary.LittleEndian.PutUint16(report[50:], 1000)

	// WHEN
	pump, _ := newTestPump(report)

	// THEN
	assert.Contains(t, pump.Report(), "Untested Firmware Version")
}

func TestAquastreamXT_UpdateIgnoresForeignReport(t *testing.T) {
	// GIVEN
	pump, device := newTestPump(testReport())
	foreign := testReport()
	foreign[0] = 0x05
	binary.LittleEndian.PutUint16(foreign[17:], 4000)
	device.SetReport(foreign)

	// WHEN
	err := pump.Update()

	// THEN
	require.NoError(t, err)
	assert.InDelta(t, 30.12, value(t, pump.waterTemperature), 0.001)
}

func TestAquastreamXT_Update(t *testing.T) {
	// GIVEN
	pump, device := newTestPump(testReport())
	next := testReport()
	binary.LittleEndian.PutUint16(next[17:], 3200)
	device.SetReport(next)

	// WHEN
	err := pump.Update()

	// THEN
	require.NoError(t, err)
	assert.InDelta(t, 32, value(t, pump.waterTemperature), 0.001)
	max, _ := pump.waterTemperature.Max()
	assert.InDelta(t, 32, max, 0.001)
}

func TestAquastreamXT_UpdateError(t *testing.T) {
	// GIVEN
	pump, device := newTestPump(testReport())
	device.Err = errors.New("disconnected")

	// WHEN
	err := pump.Update()

	// THEN
	assert.Error(t, err)
}

func TestVariantName(t *testing.T) {
	assert.Equal(t, "Standard", variantName(0))
	assert.Equal(t, "Advanced", variantName(modeFanAmplifier))
	assert.Equal(t, "Ultra", variantName(modeFanController|modeFanAmplifier))
	assert.Equal(t, "Ultra + Internal Flow Sensor", variantName(modePumpAdvanced|modeFanController))
}

func TestGroup_Detect(t *testing.T) {
	// GIVEN
	device := &testingutils.FakeHidDevice{Report: testReport()}
	options := Options{
		VendorId:  DefaultVendorId,
		ProductId: DefaultProductId,
		List: func(vendorId uint16, productId uint16) ([]transport.HidInfo, error) {
			return []transport.HidInfo{{Path: "/dev/hidraw0", SerialNumber: "AB12"}}, nil
		},
		Open: func(path string) (transport.HidDevice, error) {
			return device, nil
		},
	}

	// WHEN
	group := NewGroup(nil, options)

	// THEN
	require.Len(t, group.Hardware(), 1)
	assert.Equal(t, "/aquacomputer/aquastreamxt/ab12", group.Hardware()[0].Identifier().String())
	assert.Equal(t, 1, device.Reads)
	assert.Contains(t, group.Report(), "Status: OK")

	// WHEN
	group.Close()

	// THEN
	assert.True(t, device.IsClosed())
}

func TestGroup_ValidationFails(t *testing.T) {
	// GIVEN
	report := testReport()
	report[0] = 0x01
	device := &testingutils.FakeHidDevice{Report: report}
	options := Options{
		List: func(vendorId uint16, productId uint16) ([]transport.HidInfo, error) {
			return []transport.HidInfo{{Path: "/dev/hidraw0"}}, nil
		},
		Open: func(path string) (transport.HidDevice, error) {
			return device, nil
		},
	}

	// WHEN
	group := NewGroup(nil, options)

	// THEN
	assert.Empty(t, group.Hardware())
	assert.True(t, device.IsClosed())
	assert.Contains(t, group.Report(), "unexpected report id")
}
