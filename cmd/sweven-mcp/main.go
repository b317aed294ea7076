package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/josedlucas/sweven-mcp-server/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local .env is optional; deployments usually set real env vars.
	_ = godotenv.Load()

	app := &cli.App{}
	return cli.NewRootCmd(app).Execute()
}
