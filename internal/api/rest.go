package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "*"
	indentationChar = "  "
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// Source is the hardware registry served by the REST API
type Source interface {
	Hardware() []hardware.Hardware
	Sensors() []*hardware.Sensor
	Sensor(id string) (*hardware.Sensor, bool)
	Report() string
}

func CreateRestService(source Source, registerer prometheus.Registerer) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())
	if registerer != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "hwmon2go",
			Subsystem:  "api",
			Registerer: registerer,
		}))
	}

	echoRest.GET("/alive/", isAlive)

	registerHardwareEndpoints(echoRest, source)
	registerSensorEndpoints(echoRest, source)
	registerReportEndpoints(echoRest, source)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}
