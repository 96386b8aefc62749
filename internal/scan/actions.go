package scan

import (
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/merit-scan/internal/common"
	"github.com/dtnitsch/merit-scan/models"
	"github.com/dtnitsch/merit-scan/pkg/identifier"
	"github.com/dtnitsch/merit-scan/pkg/scanner"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// Report is the output of scanning a single document.
type Report struct {
	URL       string              `json:"url" yaml:"url"`
	State     string              `json:"state" yaml:"state"`
	Match     *models.MatchResult `json:"match,omitempty" yaml:"match,omitempty"`
	Pages     int                 `json:"pages" yaml:"pages"`
	Size      string              `json:"size" yaml:"size"`
	Duration  string              `json:"duration" yaml:"duration"`
	ErrorType string              `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Error     string              `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScanAction scans one document for a CNIC, bypassing the index page.
// --url may be absolute or relative to the index page.
func ScanAction(c *cli.Context) error {
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

	docURL, err := common.ResolveDocumentURL(c.String("url"), cfg.IndexURL)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	raw := c.String("cnic")
	if c.Bool("strip-dashes") {
		raw = identifier.StripDashes(raw)
	}
	needle, err := identifier.Validate(raw)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	pipeline := common.NewPipeline(cfg, logger, false)
	res := pipeline.Engine.Scan(c.Context, docURL, needle, scanner.Limits{
		Timeout:  cfg.Search.PerDocumentTimeout,
		MaxBytes: cfg.Search.MaxDocumentBytes,
	})

	report := newReport(docURL, res)
	if format == common.FormatText {
		_, err := fmt.Fprint(os.Stdout, RenderText(report))
		return err
	}
	return common.Render(os.Stdout, report, format)
}

func newReport(docURL string, res scanner.Result) Report {
	report := Report{
		URL:       docURL,
		State:     res.State.String(),
		Match:     res.Match,
		Pages:     res.Pages,
		Size:      humanize.Bytes(uint64(res.Bytes)),
		Duration:  res.Duration.Round(time.Millisecond).String(),
		ErrorType: res.ErrorType,
	}
	if res.Err != nil {
		report.Error = res.Err.Error()
	}
	return report
}
