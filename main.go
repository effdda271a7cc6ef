package main

import (
	"os"

	_ "modkeeper/cmd"
	"modkeeper/cmd/root"
)

func main() {
	if err := root.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
