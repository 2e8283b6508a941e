package cmd

import (
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/markusressel/hwmon2go/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hwmon2go",
	Long:  `All software has versions. This is hwmon2go's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln(version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
