package config

import (
	iofs "io/fs"
	"strings"
	"testing"
	"time"

	"github.com/solheim-studio/heimdall/internal/types"
)

type memFS struct {
	files map[string][]byte
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, iofs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) ReadDir(path string) ([]iofs.DirEntry, error) { return nil, iofs.ErrNotExist }

func (m *memFS) FileExists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memFS) WriteFile(path string, data []byte, perm iofs.FileMode) error { return nil }
func (m *memFS) MkdirAll(path string, perm iofs.FileMode) error               { return nil }

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HEIMDALL_BASE_URL",
		"HEIMDALL_EXEC_TIMEOUT",
		"HEIMDALL_REPORT_DIR",
		"HEIMDALL_FORMATS",
		"HEIMDALL_HEADFUL",
		"HEIMDALL_BROWSER_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(&memFS{}, DefaultFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ExecTimeout != 30*time.Second {
		t.Errorf("ExecTimeout = %s", cfg.ExecTimeout)
	}
	if cfg.ReportDir != "coverage" {
		t.Errorf("ReportDir = %q", cfg.ReportDir)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[0] != types.FormatJSON || cfg.Formats[1] != types.FormatText {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.Headful {
		t.Error("default should be headless")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)

	fsys := &memFS{files: map[string][]byte{
		"heimdall.yaml": []byte(strings.Join([]string{
			"base_url: http://localhost:8199/harness",
			"exec_timeout: 45s",
			"report_dir: out/cov",
			"formats: [lcov]",
			"headful: true",
		}, "\n")),
	}}

	cfg, err := Load(fsys, "heimdall.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8199/harness" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ExecTimeout != 45*time.Second {
		t.Errorf("ExecTimeout = %s", cfg.ExecTimeout)
	}
	if cfg.ReportDir != "out/cov" {
		t.Errorf("ReportDir = %q", cfg.ReportDir)
	}
	if len(cfg.Formats) != 1 || cfg.Formats[0] != types.FormatLCOV {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if !cfg.Headful {
		t.Error("headful not applied")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEIMDALL_EXEC_TIMEOUT", "5s")
	t.Setenv("HEIMDALL_FORMATS", "json,lcov")
	t.Setenv("HEIMDALL_HEADFUL", "1")

	fsys := &memFS{files: map[string][]byte{
		"heimdall.yaml": []byte("exec_timeout: 45s\nformats: [text]\n"),
	}}

	cfg, err := Load(fsys, "heimdall.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ExecTimeout != 5*time.Second {
		t.Errorf("env did not win: %s", cfg.ExecTimeout)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[1] != types.FormatLCOV {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if !cfg.Headful {
		t.Error("HEIMDALL_HEADFUL not applied")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)

	cases := map[string]string{
		"bad timeout":  "exec_timeout: soon\n",
		"bad format":   "formats: [cobertura]\n",
		"bad base url": "base_url: localhost:9\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := &memFS{files: map[string][]byte{"heimdall.yaml": []byte(body)}}
			if _, err := Load(fsys, "heimdall.yaml"); err == nil {
				t.Fatal("expected load failure")
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	formats, err := ParseFormats("json, text ,lcov")
	if err != nil {
		t.Fatalf("ParseFormats failed: %v", err)
	}
	want := []types.ReportFormat{types.FormatJSON, types.FormatText, types.FormatLCOV}
	for i, format := range want {
		if formats[i] != format {
			t.Errorf("formats[%d] = %q, want %q", i, formats[i], format)
		}
	}

	if _, err := ParseFormats(""); err == nil {
		t.Error("empty list should fail")
	}
	if _, err := ParseFormats("xml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ExecTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero timeout should fail")
	}

	cfg = Default()
	cfg.ReportDir = " "
	if err := cfg.Validate(); err == nil {
		t.Error("blank report dir with formats should fail")
	}
}
