package sensor

import (
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/hwmon2go/internal"
	"github.com/markusressel/hwmon2go/internal/computer"
	"github.com/markusressel/hwmon2go/internal/configuration"
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/markusressel/hwmon2go/internal/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sensorId string
	samples  int
	interval time.Duration
)

// some drivers activate their sensors only after decoding the first response
var (
	lookupAttempts = 5
	lookupInterval = 500 * time.Millisecond
)

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Read a single sensor",
	Long:             `Polls a sensor a number of times and plots the measured values`,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration.DetectAndReadConfigFile()
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			return err
		}

		c := internal.CreateComputer(configuration.CurrentConfig, hardware.NewMemorySettings())
		c.Open()
		defer c.Close()

		sensor, err := getSensor(c, sensorId)
		if err != nil {
			return err
		}

		if samples <= 1 {
			pterm.DisableOutput()
			c.Update()
			fmt.Println(computer.FormatValue(sensor.Value()))
			return nil
		}

		values := pollSensor(c, sensor, samples, interval)
		if len(values) <= 0 {
			return fmt.Errorf("sensor %s did not report any value", sensorId)
		}

		minValue, _ := sensor.Min()
		maxValue, _ := sensor.Max()
		caption := fmt.Sprintf("%s [%s] (min: %g, avg: %.2f, max: %g)", sensor.Name(), sensor.Type().Unit(), minValue, util.Avg(values), maxValue)
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln(graph)
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor identifier as printed by 'hwmon2go detect', e.g. /bigng/0/temperature/0",
	)
	_ = Command.MarkPersistentFlagRequired("id")
	Command.Flags().IntVarP(&samples, "samples", "n", 1, "Number of values to read")
	Command.Flags().DurationVarP(&interval, "interval", "", time.Second, "Time between two reads")
}

type updater interface {
	Update()
}

// pollSensor updates all hardware n times and collects the values the sensor reported
func pollSensor(u updater, sensor *hardware.Sensor, n int, interval time.Duration) []float64 {
	var values []float64
	for i := 0; i < n; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		u.Update()
		if value, ok := sensor.Value(); ok {
			values = append(values, float64(value))
		}
	}
	return values
}

type sensorSource interface {
	updater
	Sensor(id string) (*hardware.Sensor, bool)
	Sensors() []*hardware.Sensor
}

// getSensor updates the hardware until the sensor with the given id is active
func getSensor(source sensorSource, id string) (*hardware.Sensor, error) {
	for i := 0; i < lookupAttempts; i++ {
		if i > 0 {
			time.Sleep(lookupInterval)
		}
		source.Update()
		if sensor, exists := source.Sensor(id); exists {
			return sensor, nil
		}
	}

	availableSensorIds := []string{}
	for _, s := range source.Sensors() {
		availableSensorIds = append(availableSensorIds, s.Identifier().String())
	}
	return nil, fmt.Errorf("no sensor with id found: %s, options: %s", id, availableSensorIds)
}
