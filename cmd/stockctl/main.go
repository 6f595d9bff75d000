package main

import (
	"os"

	"github.com/jhoicas/stock-management-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
