package cmd

import (
	"bytes"
	"strconv"

	"github.com/markusressel/hwmon2go/cmd/global"
	"github.com/markusressel/hwmon2go/internal"
	"github.com/markusressel/hwmon2go/internal/computer"
	"github.com/markusressel/hwmon2go/internal/configuration"
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all hardware and sensors and prints them as a list`,
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		loadAndValidateConfig()

		c := internal.CreateComputer(configuration.CurrentConfig, hardware.NewMemorySettings())
		c.Open()
		defer c.Close()
		c.Update()

		// === Print detected devices ===
		tableConfig := &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}

		var rows [][]string
		var title string
		flush := func() {
			if len(title) <= 0 {
				return
			}
			ui.Printfln("> %s", title)
			if rows == nil {
				ui.Printfln("  no sensors\n")
				return
			}
			sensorTable := table.Table{
				Headers: []string{"Sensors", "Index", "Label", "Value", "Min", "Max", "Id"},
				Rows:    rows,
			}
			var buf bytes.Buffer
			if err := sensorTable.WriteTable(&buf, tableConfig); err != nil {
				ui.Fatal("Error printing table: %v", err)
			}
			ui.Printfln(buf.String())
		}

		err := hardware.Walk(c.Hardware(), func(node hardware.Node) error {
			switch node.Kind {
			case hardware.NodeHardware:
				flush()
				title = node.Hardware.Name() + " (" + node.Hardware.Identifier().String() + ")"
				rows = nil
			case hardware.NodeSensor:
				sensor := node.Sensor
				rows = append(rows, []string{
					sensor.Type().String(),
					strconv.Itoa(sensor.Index()),
					sensor.Name(),
					formatSensorValue(sensor, sensor.Value),
					formatSensorValue(sensor, sensor.Min),
					formatSensorValue(sensor, sensor.Max),
					sensor.Identifier().String(),
				})
			}
			return nil
		})
		if err != nil {
			ui.Fatal("Error listing hardware: %v", err)
		}
		flush()

		if len(c.Hardware()) <= 0 {
			ui.Warning("No supported hardware found")
		}
	},
}

func formatSensorValue(sensor *hardware.Sensor, value func() (float32, bool)) string {
	v, ok := value()
	if !ok {
		return "N/A"
	}
	return computer.FormatValue(v, ok) + " " + sensor.Type().Unit()
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
