package main

import (
	"fmt"
	"os"

	"github.com/astrofrog/batchpr/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the batchpr command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
