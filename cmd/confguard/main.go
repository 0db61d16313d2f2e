package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/confguard/internal/cli"
	"github.com/arthur-debert/confguard/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		fmt.Fprintln(os.Stderr, style.Failure(cmd.Name(), err))
		os.Exit(1)
	}
}
