package api

import (
	"github.com/markusressel/hwmon2go/internal/hardware"
)

type ParameterDto struct {
	Id           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Value        float32 `json:"value"`
	DefaultValue float32 `json:"defaultValue"`
	IsDefault    bool    `json:"isDefault"`
}

type SensorDto struct {
	Id         string                 `json:"id"`
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	Unit       string                 `json:"unit"`
	Hidden     bool                   `json:"hidden"`
	Value      *float32               `json:"value"`
	Min        *float32               `json:"min"`
	Max        *float32               `json:"max"`
	Parameters []ParameterDto         `json:"parameters,omitempty"`
	History    []hardware.SensorValue `json:"history,omitempty"`
}

type HardwareDto struct {
	Id          string        `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Sensors     []SensorDto   `json:"sensors"`
	SubHardware []HardwareDto `json:"subHardware,omitempty"`
}

func optional(value float32, ok bool) *float32 {
	if !ok {
		return nil
	}
	return &value
}

func newSensorDto(sensor *hardware.Sensor, withHistory bool) SensorDto {
	dto := SensorDto{
		Id:     sensor.Identifier().String(),
		Name:   sensor.Name(),
		Type:   sensor.Type().String(),
		Unit:   sensor.Type().Unit(),
		Hidden: sensor.IsHidden(),
		Value:  optional(sensor.Value()),
		Min:    optional(sensor.Min()),
		Max:    optional(sensor.Max()),
	}
	for _, parameter := range sensor.Parameters() {
		dto.Parameters = append(dto.Parameters, ParameterDto{
			Id:           parameter.Identifier().String(),
			Name:         parameter.Name(),
			Description:  parameter.Description(),
			Value:        parameter.Value(),
			DefaultValue: parameter.DefaultValue(),
			IsDefault:    parameter.IsDefault(),
		})
	}
	if withHistory {
		dto.History = sensor.History()
	}
	return dto
}

func newHardwareDto(hw hardware.Hardware) HardwareDto {
	dto := HardwareDto{
		Id:      hw.Identifier().String(),
		Name:    hw.Name(),
		Type:    hw.Type().String(),
		Sensors: []SensorDto{},
	}
	for _, sensor := range hw.Sensors() {
		dto.Sensors = append(dto.Sensors, newSensorDto(sensor, false))
	}
	for _, sub := range hw.SubHardware() {
		dto.SubHardware = append(dto.SubHardware, newHardwareDto(sub))
	}
	return dto
}
