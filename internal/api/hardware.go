package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func registerHardwareEndpoints(rest *echo.Echo, source Source) {
	group := rest.Group("/hardware")

	group.GET("/", func(c echo.Context) error {
		data := []HardwareDto{}
		for _, hw := range source.Hardware() {
			data = append(data, newHardwareDto(hw))
		}
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	})
}
