package main

import (
	"errors"
	"fmt"
	"os"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var cErr *CommandError
		if errors.As(err, &cErr) {
			return cErr.ExitCode
		}
		return ExitConfigError
	}
	return ExitSuccess
}
