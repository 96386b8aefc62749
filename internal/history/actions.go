package history

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/merit-scan/internal/common"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// HistoryAction lists recent document fetch attempts from the access log.
func HistoryAction(c *cli.Context) error {
	cfg, err := common.ResolveConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	format := c.String("format")
	if err := common.CheckFormat(format); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	database, err := common.OpenAccessLog(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	accesses, err := database.RecentAccesses(c.Int("limit"))
	if err != nil {
		return err
	}

	if format != common.FormatText {
		return common.Render(os.Stdout, accesses, format)
	}

	if len(accesses) == 0 {
		fmt.Println("No document fetches recorded")
		return nil
	}

	fmt.Printf("%-20s %-8s %-10s %-6s %-10s %-14s %s\n",
		"Fetched", "Status", "Size", "Pages", "Duration", "Error", "Title")
	fmt.Println(strings.Repeat("-", 120))
	for _, a := range accesses {
		status := "ok"
		if !a.Success {
			status = "failed"
		}
		fmt.Printf("%-20s %-8s %-10s %-6d %-10s %-14s %s\n",
			humanize.Time(a.CreatedAt),
			status,
			humanize.Bytes(uint64(a.Bytes)),
			a.Pages,
			a.Duration.Round(time.Millisecond).String(),
			a.ErrorType,
			a.Title,
		)
	}

	counts, err := database.FailureCounts()
	if err != nil {
		return err
	}
	if len(counts) > 0 {
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		fmt.Printf("\nFailures by type:")
		for _, t := range types {
			fmt.Printf(" %s=%s", t, humanize.Comma(int64(counts[t])))
		}
		fmt.Println()
	}
	fmt.Printf("\nDatabase: %s\n", database.Path())
	return nil
}
