package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/merit-scan/internal/history"
	"github.com/dtnitsch/merit-scan/internal/lists"
	"github.com/dtnitsch/merit-scan/internal/scan"
	"github.com/dtnitsch/merit-scan/internal/search"
	"github.com/dtnitsch/merit-scan/models"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "meritscan",
		Usage: "Find a CNIC in published merit list PDFs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "index-url", Value: models.DefaultIndexURL, Usage: "merit list index page"},
			&cli.StringFlag{Name: "user-agent", Value: models.DefaultUserAgent, Usage: "User-Agent sent with every request"},
			&cli.StringFlag{Name: "cache-dir", Usage: "index page cache directory (default: user cache dir)"},
			&cli.DurationFlag{Name: "cache-ttl", Value: models.DefaultCacheTTL, Usage: "how long a cached index page stays fresh"},
			&cli.BoolFlag{Name: "no-cache", Usage: "always fetch the index page"},
			&cli.Float64Flag{Name: "rps", Value: models.DefaultRequestsPerSecond, Usage: "maximum requests per second to the list server"},
			&cli.StringFlag{Name: "db", Usage: "access log database path (default: next to the binary)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "output format: json, yaml or text"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "verbose", Usage: "log scan state transitions"},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search every listed merit list for a CNIC",
				ArgsUsage: "[cnic]",
				Flags: append(budgetFlags(),
					&cli.StringFlag{Name: "cnic", Usage: "CNIC, digits only"},
					&cli.BoolFlag{Name: "strip-dashes", Usage: "remove dashes and spaces from the CNIC before validating"},
					&cli.BoolFlag{Name: "no-record", Usage: "do not write fetch attempts to the access log"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the outcome to a file instead of stdout"},
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing --output file"},
				),
				Action: search.SearchAction,
			},
			{
				Name:   "lists",
				Usage:  "Print the merit lists published on the index page",
				Action: lists.ListsAction,
			},
			{
				Name:  "scan",
				Usage: "Scan a single merit list document for a CNIC",
				Flags: append(budgetFlags(),
					&cli.StringFlag{Name: "url", Required: true, Usage: "document URL"},
					&cli.StringFlag{Name: "cnic", Required: true, Usage: "CNIC, digits only"},
					&cli.BoolFlag{Name: "strip-dashes", Usage: "remove dashes and spaces from the CNIC before validating"},
				),
				Action: scan.ScanAction,
			},
			{
				Name:  "history",
				Usage: "Show recent document fetch attempts",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of attempts to show"},
				},
				Action: history.HistoryAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func budgetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "max-docs", Value: models.DefaultMaxDocuments, Usage: "stop after scanning this many documents"},
		&cli.IntFlag{Name: "max-matches", Value: models.DefaultMaxMatches, Usage: "stop after this many matching documents"},
		&cli.DurationFlag{Name: "timeout", Value: models.DefaultPerDocumentTimeout, Usage: "per-document download timeout"},
		&cli.DurationFlag{Name: "max-wall-time", Value: models.DefaultMaxWallTime, Usage: "do not start new documents after this long"},
		&cli.IntFlag{Name: "workers", Value: models.DefaultWorkers, Usage: "documents scanned in parallel"},
		&cli.Int64Flag{Name: "max-bytes", Value: models.DefaultMaxDocumentBytes, Usage: "largest document to download"},
	}
}
