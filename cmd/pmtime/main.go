package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/cli"
)

func main() {
	root := cli.NewRootCommand(repositoryOpener(getEnvironment()))

	if err := root.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
