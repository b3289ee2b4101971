package main

import (
	"github.com/admi-n/multichain-Excavator/src/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		cmd.PrintFatal(err)
	}
}
