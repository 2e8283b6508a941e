package heatmaster

import (
	"testing"

	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/testingutils"
	"github.com/markusressel/hwmon2go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(port *testingutils.FakePort) Options {
	options := DefaultOptions()
	options.List = func(vendorId uint16, productId uint16) ([]transport.PortInfo, error) {
		return []transport.PortInfo{{Name: "/dev/ttyUSB1"}}, nil
	}
	options.Open = func(name string, baudRate int) (transport.Port, error) {
		return port, nil
	}
	return options
}

func TestGroup_Detect(t *testing.T) {
	// GIVEN
	port := testingutils.NewFakePort()
	port.OnWrite = newFakeDevice().respond

	// WHEN
	group := NewGroup(hardware.NewMemorySettings(), testOptions(port))
	defer group.Close()

	// THEN
	require.Len(t, group.Hardware(), 1)
	assert.Equal(t, "/heatmaster/dev-ttyusb1", group.Hardware()[0].Identifier().String())
	assert.Contains(t, group.Report(), "Status: OK")
}

func TestGroup_WrongHardwareRevision(t *testing.T) {
	// GIVEN
	fake := newFakeDevice()
	fake.fields["0:H"] = "771"
	port := testingutils.NewFakePort()
	port.OnWrite = fake.respond

	// WHEN
	group := NewGroup(hardware.NewMemorySettings(), testOptions(port))

	// THEN
	assert.Empty(t, group.Hardware())
	assert.Contains(t, group.Report(), "Wrong Hardware Revision 771")
	assert.True(t, port.IsClosed())
}

func TestGroup_RevisionMissing(t *testing.T) {
	// GIVEN
	fake := newFakeDevice()
	delete(fake.fields, "0:H")
	port := testingutils.NewFakePort()
	port.OnWrite = fake.respond

	// WHEN
	group := NewGroup(hardware.NewMemorySettings(), testOptions(port))

	// THEN
	assert.Empty(t, group.Hardware())
	assert.Contains(t, group.Report(), "Wrong Hardware Revision 0")
}

func TestGroup_RevisionTimeout(t *testing.T) {
	// GIVEN
	shortLineTimeout(t)
	port := testingutils.NewFakePort()
	port.OnWrite = func(data []byte) []byte {
		if len(data) == 1 && data[0] == syncByte {
			return []byte{syncByte}
		}
		return nil
	}

	// WHEN
	group := NewGroup(hardware.NewMemorySettings(), testOptions(port))

	// THEN
	assert.Empty(t, group.Hardware())
	assert.Contains(t, group.Report(), "Timeout Reading Revision")
}

func TestGroup_NoSyncEcho(t *testing.T) {
	// GIVEN
	port := testingutils.NewFakePort()
	port.OnWrite = func(data []byte) []byte {
		return []byte{0x01, 0x02}
	}

	// WHEN
	group := NewGroup(hardware.NewMemorySettings(), testOptions(port))

	// THEN
	assert.Empty(t, group.Hardware())
	assert.Contains(t, group.Report(), "Wrong Startflag")
}

func TestGroup_NoResponse(t *testing.T) {
	// GIVEN
	port := testingutils.NewFakePort()

	// WHEN
	group := NewGroup(hardware.NewMemorySettings(), testOptions(port))

	// THEN
	assert.Empty(t, group.Hardware())
	assert.Contains(t, group.Report(), "No Response")
}
