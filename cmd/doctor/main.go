package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/solheim-studio/heimdall/internal/adapters/cli"
	"github.com/solheim-studio/heimdall/internal/adapters/fs"
	"github.com/solheim-studio/heimdall/internal/adapters/playwright"
	"github.com/solheim-studio/heimdall/internal/config"
	"github.com/solheim-studio/heimdall/internal/script"
	"github.com/solheim-studio/heimdall/internal/session"
	"github.com/solheim-studio/heimdall/internal/transform"
	"github.com/solheim-studio/heimdall/internal/types"
)

func main() {
	out := cli.NewOutput()
	out.PrintHeader("Heimdall Doctor")

	report := cli.NewCheckReport(out)
	fsys := fs.NewOSFileSystem()

	cfg := config.Default()
	report.Run("configuration", func() error {
		loaded, err := config.FromEnv(fsys)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	})

	report.Run("script pipeline", func() error {
		body, err := script.Synthesize(script.Request{
			Code:        "<div>doctor</div>",
			ContainerID: "hd-doctor",
			Runtime:     types.DefaultRuntime(),
		})
		if err != nil {
			return err
		}
		_, err = transform.NewESBuild(transform.DefaultDialect()).Compile(body)
		return err
	})

	report.Run("playwright driver", playwright.Install)

	var driver *playwright.Driver
	launched := report.Run("browser launch", func() error {
		var err error
		driver, err = playwright.NewDriver(playwright.Options{
			Headful:        cfg.Headful,
			ExecutablePath: cfg.BrowserPath,
		})
		return err
	})

	if launched {
		report.Run("session round trip", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			sess, err := driver.NewSession(ctx, session.Config{BaseURL: cfg.BaseURL})
			if err != nil {
				return err
			}
			defer func() { _ = sess.Terminate() }()
			return session.Ping(ctx, sess)
		})

		report.Run("browser shutdown", driver.Close)
	}

	report.Run("report directory", func() error {
		if err := os.MkdirAll(cfg.ReportDir, 0o755); err != nil {
			return err
		}
		probe := filepath.Join(cfg.ReportDir, ".doctor")
		if err := os.WriteFile(probe, []byte("ok\n"), 0o644); err != nil {
			return err
		}
		return os.Remove(probe)
	})

	report.Render()
	if report.HasFailures() {
		os.Exit(1)
	}
}
