package main

import (
	"context"
	"os"

	"track/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], cli.Options{}))
}
