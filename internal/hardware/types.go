package hardware

type SensorType int

const (
	SensorTypeTemperature SensorType = iota
	SensorTypeFan
	SensorTypeFlow
	SensorTypeVoltage
	SensorTypePower
	SensorTypeFrequency
	SensorTypeControl
	SensorTypeLoad
	SensorTypeData
	SensorTypeThroughput
	SensorTypeRawValue
)

var sensorTypeNames = map[SensorType]string{
	SensorTypeTemperature: "temperature",
	SensorTypeFan:         "fan",
	SensorTypeFlow:        "flow",
	SensorTypeVoltage:     "voltage",
	SensorTypePower:       "power",
	SensorTypeFrequency:   "frequency",
	SensorTypeControl:     "control",
	SensorTypeLoad:        "load",
	SensorTypeData:        "data",
	SensorTypeThroughput:  "throughput",
	SensorTypeRawValue:    "raw",
}

var sensorTypeUnits = map[SensorType]string{
	SensorTypeTemperature: "°C",
	SensorTypeFan:         "RPM",
	SensorTypeFlow:        "L/h",
	SensorTypeVoltage:     "V",
	SensorTypePower:       "W",
	SensorTypeFrequency:   "Hz",
	SensorTypeControl:     "%",
	SensorTypeLoad:        "%",
	SensorTypeData:        "GB",
	SensorTypeThroughput:  "B/s",
	SensorTypeRawValue:    "",
}

// String returns the lower-case name used in sensor identifiers
func (t SensorType) String() string {
	name, ok := sensorTypeNames[t]
	if !ok {
		return "unknown"
	}
	return name
}

func (t SensorType) Unit() string {
	return sensorTypeUnits[t]
}

type HardwareType int

const (
	HardwareTypeMainboard HardwareType = iota
	HardwareTypeSuperIO
	HardwareTypeTBalancer
	HardwareTypeHeatmaster
	HardwareTypeCooler
)

func (t HardwareType) String() string {
	switch t {
	case HardwareTypeMainboard:
		return "Mainboard"
	case HardwareTypeSuperIO:
		return "SuperIO"
	case HardwareTypeTBalancer:
		return "TBalancer"
	case HardwareTypeHeatmaster:
		return "Heatmaster"
	case HardwareTypeCooler:
		return "Cooler"
	}
	return "Unknown"
}
