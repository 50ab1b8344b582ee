package main

import (
	"os"

	"github.com/torredebabel/icfes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
