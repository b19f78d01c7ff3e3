package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/archsearch/internal/config"
	"github.com/kailas-cloud/archsearch/internal/version"
)

// Default demo queries.
const (
	defaultTraditionalQuery = "What are the networking requirements for AKS?"
	defaultAgenticQuery     = "What are the networking requirements for AKS when an enterprise hub and spoke " +
		"topology is being used and the Azure AI landing zone is in place? I need to understand " +
		"the specific configuration, security considerations, and integration patterns."
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "archsearch",
		Usage:   "Compare traditional hybrid search with agentic retrieval over architecture guidance",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Configuration environment (config/<env>.yaml), defaults to $ENV or local",
				Value: config.GetEnv(),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override logging level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "traditional",
				Usage:  "Run the traditional hybrid search demo",
				Action: traditionalCommand,
				Flags:  []cli.Flag{queryFlag(defaultTraditionalQuery)},
			},
			{
				Name:   "agentic",
				Usage:  "Run the agentic retrieval demo",
				Action: agenticCommand,
				Flags:  []cli.Flag{queryFlag(defaultAgenticQuery)},
			},
			{
				Name:   "compare",
				Usage:  "Run both demos on their default queries",
				Action: compareCommand,
			},
			{
				Name:   "serve",
				Usage:  "Start the chat server",
				Action: serveCommand,
			},
		},
	}
}

func queryFlag(def string) cli.Flag {
	return &cli.StringFlag{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "Query to run",
		Value:   def,
	}
}
