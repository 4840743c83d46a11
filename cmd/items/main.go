package main

import (
	"os"

	"github.com/joaosp7/items-manager/internal/api"
	"github.com/joaosp7/items-manager/internal/cli"
	"github.com/joaosp7/items-manager/internal/config"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	// Configuration is read exactly once, here; the client keeps it.
	cfg := config.LoadConfig()
	client := api.New(cfg)

	os.Exit(cli.Run(args, client))
}
