package main

import "github.com/openbeamline/beamplot/cmd/beamplot/cmd"

func main() {
	cmd.Execute()
}
