package version

const (
	Name    = "hwmon2go"
	Version = "0.1.0"
)
