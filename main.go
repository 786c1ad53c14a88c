package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Lbqds/app-alephium/cmd"
)

func main() {
	app := &cli.Command{
		Name:  "alephium-review",
		Usage: "Alephium transaction review tooling",
		Commands: []*cli.Command{
			cmd.ReviewCommand(),
			cmd.DecodeCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
