package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// UsbId is a USB vendor or product id, written as hex in the config file
type UsbId uint16

func (id UsbId) String() string {
	return fmt.Sprintf("%04X", uint16(id))
}

// ParseUsbId accepts hex with or without a "0x" prefix, e.g. "0403" or "0x10c4"
func ParseUsbId(text string) (UsbId, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(strings.ToLower(text), "0x")
	value, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid usb id '%s': %w", text, err)
	}
	return UsbId(value), nil
}

// UsbIdHookFunc returns a mapstructure decode hook for UsbId.
// Strings are parsed as hex, numbers are taken as they are.
func UsbIdHookFunc() mapstructure.DecodeHookFuncType {
	usbIdType := reflect.TypeOf(UsbId(0))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != usbIdType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return ParseUsbId(v)
		case int:
			if v < 0 || v > 0xFFFF {
				return nil, fmt.Errorf("usb id out of range: %d", v)
			}
			return UsbId(v), nil
		case uint16:
			return UsbId(v), nil
		}
		return data, nil
	}
}
