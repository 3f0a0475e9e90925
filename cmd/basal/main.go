package main

import "github.com/tidepool-org/tideline/cmd/basal/command"

func main() {
	command.Execute()
}
