package cmd

import (
	"github.com/markusressel/hwmon2go/internal"
	"github.com/markusressel/hwmon2go/internal/configuration"
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/markusressel/hwmon2go/internal/util"
	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a diagnostic report",
	Long:  `Detects all hardware, reads it once and prints a report containing all sensors and raw device information`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		loadAndValidateConfig()

		c := internal.CreateComputer(configuration.CurrentConfig, hardware.NewMemorySettings())
		c.Open()
		defer c.Close()
		c.Update()

		report := c.Report()
		if len(reportOutput) <= 0 {
			ui.Printf("%s", report)
			return
		}

		if err := util.WriteStringToFileAtomic(report, reportOutput); err != nil {
			ui.Fatal("Unable to write report to %s: %v", reportOutput, err)
		}
		ui.Success("Report written to %s", reportOutput)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the report to this file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
