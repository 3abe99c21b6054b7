package playwright

import (
	"context"
	"fmt"

	pw "github.com/playwright-community/playwright-go"

	"github.com/solheim-studio/heimdall/internal/session"
)

const blankDocument = `<!DOCTYPE html><html><head><meta charset="utf-8"><title>heimdall</title></head><body></body></html>`

// Options control the launched browser. The zero value launches the
// bundled Chromium headless.
type Options struct {
	Headful        bool
	ExecutablePath string
	LaunchTimeout  float64
}

// Driver owns a playwright process and a single browser. Sessions opened
// through it share the browser but get isolated pages.
type Driver struct {
	pw      *pw.Playwright
	browser pw.Browser
}

var _ session.Factory = (*Driver)(nil)

func NewDriver(opts Options) (*Driver, error) {
	driver, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright driver: %w", err)
	}

	launch := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(!opts.Headful),
	}
	if opts.ExecutablePath != "" {
		launch.ExecutablePath = pw.String(opts.ExecutablePath)
	}
	if opts.LaunchTimeout > 0 {
		launch.Timeout = pw.Float(opts.LaunchTimeout)
	}

	browser, err := driver.Chromium.Launch(launch)
	if err != nil {
		_ = driver.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	return &Driver{pw: driver, browser: browser}, nil
}

func (d *Driver) NewSession(ctx context.Context, cfg session.Config) (session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, &session.SessionError{Op: "open", Err: err}
	}

	page, err := d.browser.NewPage()
	if err != nil {
		return nil, &session.SessionError{Op: "open", Err: err}
	}

	if cfg.BaseURL != "" {
		_, err = page.Goto(cfg.BaseURL, pw.PageGotoOptions{
			WaitUntil: pw.WaitUntilStateNetworkidle,
		})
	} else {
		err = page.SetContent(blankDocument)
	}
	if err != nil {
		_ = page.Close()
		return nil, &session.SessionError{Op: "navigate", Err: err}
	}

	return &pageSession{page: page}, nil
}

func (d *Driver) Close() error {
	err := d.browser.Close()
	if stopErr := d.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}

// Install downloads the playwright driver and a chromium build if they are
// not already present. Safe to call repeatedly.
func Install() error {
	return pw.Install(&pw.RunOptions{
		Browsers: []string{"chromium"},
	})
}
