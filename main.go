package main

import (
	"os"

	"github.com/ipchama/dhcpopt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
