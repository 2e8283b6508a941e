package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func registerSensorEndpoints(rest *echo.Echo, source Source) {
	group := rest.Group("/sensor")

	group.GET("/", func(c echo.Context) error {
		data := []SensorDto{}
		for _, sensor := range source.Sensors() {
			data = append(data, newSensorDto(sensor, false))
		}
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	})

	// sensor identifiers contain slashes, e.g. /sensor/bigng/0/fan/1/
	group.GET("/"+urlParamId, func(c echo.Context) error {
		id := "/" + strings.Trim(c.Param(urlParamId), "/")
		sensor, exists := source.Sensor(id)
		if !exists {
			return returnNotFound(c, id)
		}
		return c.JSONPretty(http.StatusOK, newSensorDto(sensor, true), indentationChar)
	})
}
