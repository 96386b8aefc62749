package lists

import (
	"fmt"
	"os"
	"strings"

	"github.com/dtnitsch/merit-scan/internal/common"
	"github.com/dtnitsch/merit-scan/models"
	"github.com/urfave/cli/v2"
)

// ListsAction prints the parsed merit list index.
func ListsAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.ResolveConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), 2)
	}
	format := c.String("format")
	if err := common.CheckFormat(format); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	pipeline := common.NewPipeline(cfg, logger, !c.Bool("no-cache"))
	indexURL := pipeline.Lists.IndexURL()
	entries, err := pipeline.Lists.Fetch(c.Context)
	if err != nil {
		// An unreachable index is reported as an empty list, not a failure.
		logger.Warn("Merit list index unavailable", "url", indexURL, "error", err)
		entries = []models.ListEntry{}
	}

	if format == common.FormatText {
		printEntries(indexURL, entries)
		return nil
	}
	return common.Render(os.Stdout, entries, format)
}

func printEntries(indexURL string, entries []models.ListEntry) {
	fmt.Printf("Index: %s\n\n", indexURL)
	if len(entries) == 0 {
		fmt.Println("No merit lists found")
		return
	}

	fmt.Printf("%-6s %-50s %-16s %-10s %s\n", "List", "Title", "Campus", "Degree", "Document")
	fmt.Println(strings.Repeat("-", 120))
	withDocs := 0
	for _, e := range entries {
		doc := e.DocumentURL
		if e.HasDocument() {
			withDocs++
		} else {
			doc = "(no link)"
		}
		fmt.Printf("%-6s %-50s %-16s %-10s %s\n", e.ListNumber, e.Title, e.Campus, e.Degree, doc)
	}
	fmt.Printf("\nTotal: %d lists, %d with documents\n", len(entries), withDocs)
}
