package structures

import "net/http"

type CliFlags struct {
	ConfigPath   string `short:"c" long:"config" description:"Path to the yaml config file" default:"config.yml"`
	DebugMode    bool   `short:"d" long:"debug" description:"Log to the console as well as to files"`
	SimulateMode bool   `long:"simulate" description:"Use the seeded generator instead of host reported tab and inbox counts"`
}

type Route struct {
	Url     string
	Handler http.Handler
}
