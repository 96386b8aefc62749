package search

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dtnitsch/merit-scan/internal/common"
	"github.com/dtnitsch/merit-scan/pkg/identifier"
	searchpkg "github.com/dtnitsch/merit-scan/pkg/search"
	"github.com/dtnitsch/merit-scan/pkg/storage"
	"github.com/urfave/cli/v2"
)

func SearchAction(c *cli.Context) error {
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

	raw := c.String("cnic")
	if raw == "" && c.NArg() > 0 {
		raw = c.Args().First()
	}
	if c.Bool("strip-dashes") {
		raw = identifier.StripDashes(raw)
	}
	// Reject bad input before the cache directory or access log is created.
	if _, err := identifier.Validate(raw); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	s := &storage.Storage{}
	out := c.String("output")
	if out != "" && s.HasFile(out) && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("output file %s already exists (use --force to overwrite)", out), 2)
	}

	pipeline := common.NewPipeline(cfg, logger, !c.Bool("no-cache"))
	opts := []searchpkg.Option{searchpkg.WithLogger(logger)}
	if !c.Bool("no-record") {
		database, err := common.OpenAccessLog(cfg)
		if err != nil {
			logger.Warn("Access log disabled", "error", err)
		} else {
			defer database.Close()
			opts = append(opts, searchpkg.WithRecorder(database))
		}
	}
	coordinator := searchpkg.NewCoordinator(pipeline.Lists, pipeline.Engine, opts...)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	outcome, err := coordinator.Search(ctx, raw, cfg.Search)
	if errors.Is(err, identifier.ErrInvalidIdentifier) {
		return cli.Exit(err.Error(), 1)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var data []byte
	if format == common.FormatText {
		data = []byte(RenderText(outcome))
	} else {
		data, err = common.Marshal(outcome, format)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}

	if out != "" {
		if err := s.SaveFile(out, data); err != nil {
			return fmt.Errorf("failed to write outcome: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Outcome saved to: %s\n", out)
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}
