package transport

import (
	"fmt"

	"github.com/sstallion/go-hid"
)

// HidDevice is the subset of a HID device used by the device drivers
type HidDevice interface {
	// GetFeatureReport fills data, data[0] has to contain the report id
	GetFeatureReport(data []byte) (int, error)
	Close() error
}

type HidInfo struct {
	Path         string
	VendorId     uint16
	ProductId    uint16
	SerialNumber string
	Product      string
}

type HidLister func(vendorId uint16, productId uint16) ([]HidInfo, error)

type HidOpener func(path string) (HidDevice, error)

// InitHid initializes the hidapi library, it has to be called before any other HID call
func InitHid() error {
	return hid.Init()
}

func ExitHid() error {
	return hid.Exit()
}

// ListHid enumerates HID devices with the given vendor and product id
func ListHid(vendorId uint16, productId uint16) ([]HidInfo, error) {
	var result []HidInfo
	err := hid.Enumerate(vendorId, productId, func(info *hid.DeviceInfo) error {
		result = append(result, HidInfo{
			Path:         info.Path,
			VendorId:     info.VendorID,
			ProductId:    info.ProductID,
			SerialNumber: info.SerialNbr,
			Product:      info.ProductStr,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate HID devices: %w", err)
	}
	return result, nil
}

func OpenHid(path string) (HidDevice, error) {
	device, err := hid.OpenPath(path)
	if err != nil {
		return nil, err
	}
	return device, nil
}
