package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "staypoint",
		Usage: "Detect stay points and count grid occupancy in GPS trajectories",
		Commands: []*cli.Command{
			detectCommand(),
			gridCommand(),
			timesCommand(),
			tokenCommand(),
		},
	}
}

func main() {
	log.SetFlags(0)
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
