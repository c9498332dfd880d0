// Package main provides the schemalab CLI.
package main

import (
	"context"
	"os"

	"github.com/mesh-intelligence/schemalab/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
