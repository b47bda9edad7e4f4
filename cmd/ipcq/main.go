package main

import (
	"os"

	"github.com/tormodhaugland/ipcq/cmd/ipcq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
