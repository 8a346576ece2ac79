package main

import (
	"turnos/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
