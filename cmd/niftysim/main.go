package main

import (
	"os"

	"github.com/Aditya2838/new-market/cmd/niftysim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
