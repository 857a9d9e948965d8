package main

import (
	"context"
	"fmt"
	"os"

	"discipline-dashboard/internal/cli"
)

func main() {
	root := cli.NewRootCommand(cli.ConnectStores)

	if err := root.Execute(context.Background()); err != nil {
		handler := cli.NewErrorHandler()
		fmt.Fprintf(os.Stderr, "Error: %v\n", handler.HandleSimple(err))
		os.Exit(handler.ExitCode(err))
	}
}
