package util

import (
	"os"
	"path/filepath"
	"strings"
)

// GetDeviceName read the name of a device
func GetDeviceName(devicePath string) string {
	namePath := devicePath + "/name"
	content, _ := os.ReadFile(namePath)
	name := string(content)
	return strings.TrimSpace(name)
}

// GetLabel read the label of a in/output of a device
func GetLabel(devicePath string, input string) string {
	labelPath := strings.TrimSuffix(devicePath+"/"+input, "input") + "label"

	content, _ := os.ReadFile(labelPath)
	label := string(content)
	if len(label) <= 0 {
		label = strings.TrimSuffix(input, "_input")
	}
	if len(label) <= 0 {
		_, label = filepath.Split(devicePath)
	}
	return strings.TrimSpace(label)
}
