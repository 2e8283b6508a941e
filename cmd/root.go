package cmd

import (
	"fmt"
	"os"

	"github.com/markusressel/hwmon2go/cmd/config"
	"github.com/markusressel/hwmon2go/cmd/global"
	"github.com/markusressel/hwmon2go/cmd/sensor"
	"github.com/markusressel/hwmon2go/internal"
	"github.com/markusressel/hwmon2go/internal/configuration"
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hwmon2go",
	Short: "A daemon collecting hardware telemetry.",
	Long: `hwmon2go is a daemon that reads temperatures, fan speeds,
flow rates and pump data from mainboard sensors and external
fan controllers, and exposes them via REST and Prometheus.`,
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		printHeader()

		loadAndValidateConfig()

		internal.RunDaemon()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/hwmon2go.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(sensor.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

func loadAndValidateConfig() {
	configPath := configuration.DetectAndReadConfigFile()
	if len(configPath) > 0 {
		ui.Info("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.ErrorAndNotify("Config Validation Error", "%v", err)
		os.Exit(1)
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("hwmon", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("2", pterm.NewStyle(pterm.FgWhite)),
		pterm.NewLettersFromStringWithStyle("go", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()
	if err != nil {
		fmt.Println("hwmon2go")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
