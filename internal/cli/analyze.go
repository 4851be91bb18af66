package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/pulse/internal/config"
	"github.com/runnerr0/pulse/internal/logging"
	"github.com/runnerr0/pulse/internal/post"
	"github.com/runnerr0/pulse/internal/report"
	"github.com/runnerr0/pulse/internal/storage"
)

// Execute implements the go-flags Commander interface for AnalyzeCommand.
func (c *AnalyzeCommand) Execute(args []string) error {
	if c.Handle == "" {
		return fmt.Errorf("--handle is required for analyze command")
	}

	if !c.Save {
		rt, err := loadRuntime(c.globals)
		if err != nil {
			return err
		}
		return c.executeWithStore(context.Background(), rt, nil)
	}

	return withStore(c.globals, func(ctx context.Context, rt *runtime, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(ctx, rt, store)
	})
}

// executeWithStore runs the analysis; store is only used with --save.
func (c *AnalyzeCommand) executeWithStore(ctx context.Context, rt *runtime, store storage.Store) error {
	format, err := c.outputFormat(rt.cfg)
	if err != nil {
		return err
	}
	now, err := c.referenceTime()
	if err != nil {
		return err
	}
	if c.Save && store == nil {
		return fmt.Errorf("--save needs an open database")
	}

	posts, err := c.readPosts()
	if err != nil {
		return err
	}

	platform := c.Platform
	if platform == "" {
		platform = rt.cfg.Report.Platform
	}

	builder := report.NewBuilder(rt.cfg.Report.MaxPosts)
	builder.Now = func() time.Time { return now }
	rep := builder.Build(c.Handle, platform, posts)

	log := rt.logger.WithFields(logging.Fields{
		"report_id": rep.ID,
		"posts":     rep.Meta.PostCount,
		"score":     rep.Health.Score,
	})
	for _, w := range rep.Warnings {
		log.Warn(w)
	}

	if c.Save {
		if err := store.SaveReport(ctx, rep); err != nil {
			return fmt.Errorf("storing report: %w", err)
		}
		log.Info("Report saved")
	} else {
		log.Debug("Report built")
	}

	return c.writeReport(rep, format)
}

func (c *AnalyzeCommand) outputFormat(cfg *config.Config) (string, error) {
	if c.globals != nil && c.globals.JSON {
		return config.FormatJSON, nil
	}
	format := strings.ToLower(c.Format)
	if format == "" {
		format = cfg.Report.Format
	}
	switch format {
	case config.FormatJSON, config.FormatMarkdown:
		return format, nil
	default:
		return "", fmt.Errorf("invalid --format %q (use json or md)", c.Format)
	}
}

func (c *AnalyzeCommand) referenceTime() (time.Time, error) {
	if c.Now != "" {
		t, err := time.Parse("2006-01-02", c.Now)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --now %q (use YYYY-MM-DD)", c.Now)
		}
		return t, nil
	}
	if c.clock != nil {
		return c.clock().UTC(), nil
	}
	return time.Now().UTC(), nil
}

func (c *AnalyzeCommand) readPosts() ([]post.Post, error) {
	var r io.Reader
	if c.Input == "" || c.Input == "-" {
		r = c.stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(c.Input)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	posts, err := report.DecodePosts(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.inputName(), err)
	}
	return posts, nil
}

func (c *AnalyzeCommand) inputName() string {
	if c.Input == "" || c.Input == "-" {
		return "stdin"
	}
	return c.Input
}

func (c *AnalyzeCommand) writeReport(rep *report.Report, format string) error {
	out := io.Writer(os.Stdout)
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format == config.FormatJSON {
		return writeJSON(out, rep)
	}
	_, err := io.WriteString(out, report.RenderMarkdown(rep))
	return err
}
