package configuration

import (
	"os"
	"time"

	"github.com/markusressel/hwmon2go/internal/smbios"
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	UpdateRate time.Duration `json:"updateRate"`

	Mainboard    MainboardConfig    `json:"mainboard"`
	TBalancer    SerialDeviceConfig `json:"tbalancer"`
	Heatmaster   SerialDeviceConfig `json:"heatmaster"`
	Aquacomputer HidDeviceConfig    `json:"aquacomputer"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("hwmon2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/hwmon2go/")
	}

	viper.SetEnvPrefix("hwmon2go")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/hwmon2go/hwmon2go.db")
	viper.SetDefault("updateRate", 1*time.Second)

	viper.SetDefault("mainboard.enabled", true)
	viper.SetDefault("mainboard.smbiosPath", smbios.DefaultTablePath)
	viper.SetDefault("mainboard.hwmon", true)

	viper.SetDefault("tbalancer.enabled", true)
	viper.SetDefault("tbalancer.vendorId", "0403")
	viper.SetDefault("tbalancer.productId", "6001")
	viper.SetDefault("tbalancer.baudRate", 19200)

	viper.SetDefault("heatmaster.enabled", true)
	viper.SetDefault("heatmaster.vendorId", "10C4")
	viper.SetDefault("heatmaster.productId", "EA60")
	viper.SetDefault("heatmaster.baudRate", 38400)

	viper.SetDefault("aquacomputer.enabled", true)
	viper.SetDefault("aquacomputer.vendorId", "0C70")
	viper.SetDefault("aquacomputer.productId", "F0B6")

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)
}

// DetectAndReadConfigFile reads the config file if one was found and returns its path.
// A missing config file is not an error, all keys have defaults.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			ui.Warning("No configuration file found, using defaults")
			return ""
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		UsbIdHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
