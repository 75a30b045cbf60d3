package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.OpenFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error:"), err)
		os.Exit(1)
	}
}
