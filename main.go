package main

import "github.com/tidepool-org/tideline/api"

func main() {
	api.MainLoop()
}
