package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func registerReportEndpoints(rest *echo.Echo, source Source) {
	rest.GET("/report/", func(c echo.Context) error {
		return c.String(http.StatusOK, source.Report())
	})
}
