package configuration

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var supportedBaudRates = []int{9600, 19200, 38400, 57600, 115200}

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.UpdateRate <= 0 {
		return errors.New("updateRate must be positive")
	}

	if config.Mainboard.Enabled && len(config.Mainboard.SmbiosPath) <= 0 {
		return errors.New("mainboard: smbiosPath must not be empty")
	}

	err := validateSerialDevice("tbalancer", config.TBalancer)
	if err != nil {
		return err
	}
	err = validateSerialDevice("heatmaster", config.Heatmaster)
	if err != nil {
		return err
	}

	if config.Aquacomputer.Enabled && (config.Aquacomputer.VendorId == 0 || config.Aquacomputer.ProductId == 0) {
		return errors.New("aquacomputer: vendorId and productId must be set")
	}

	if config.Statistics.Enabled {
		if err := validatePort("statistics", config.Statistics.Port); err != nil {
			return err
		}
	}
	if config.Api.Enabled {
		if err := validatePort("api", config.Api.Port); err != nil {
			return err
		}
		if config.Statistics.Enabled && config.Statistics.Port == config.Api.Port {
			return fmt.Errorf("api: port %d is already used by statistics", config.Api.Port)
		}
	}

	return nil
}

func validateSerialDevice(name string, config SerialDeviceConfig) error {
	if !config.Enabled {
		return nil
	}
	if config.VendorId == 0 || config.ProductId == 0 {
		return fmt.Errorf("%s: vendorId and productId must be set", name)
	}
	if !slices.Contains(supportedBaudRates, config.BaudRate) {
		return fmt.Errorf("%s: unsupported baudRate %d, use one of: %v", name, config.BaudRate, supportedBaudRates)
	}
	return nil
}

func validatePort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s: invalid port %d", name, port)
	}
	return nil
}
