package configuration

type MainboardConfig struct {
	Enabled    bool   `json:"enabled"`
	SmbiosPath string `json:"smbiosPath"`
	// Hwmon enables lm-sensors chip detection
	Hwmon bool `json:"hwmon"`
}

type SerialDeviceConfig struct {
	Enabled   bool  `json:"enabled"`
	VendorId  UsbId `json:"vendorId"`
	ProductId UsbId `json:"productId"`
	BaudRate  int   `json:"baudRate"`
}

type HidDeviceConfig struct {
	Enabled   bool  `json:"enabled"`
	VendorId  UsbId `json:"vendorId"`
	ProductId UsbId `json:"productId"`
}
