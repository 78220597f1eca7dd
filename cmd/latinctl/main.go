package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/laporan-latin/laporan-latin/cmd/latinctl/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.Options{}).Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
