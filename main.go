package main

import (
	"fmt"
	"os"

	"github.com/nconklindev/quizmerge/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCommand(version)
	root.SetVersionTemplate(fmt.Sprintf("quizmerge {{.Version}}\ncommit: %s\nbuilt: %s\n", commit, date))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
