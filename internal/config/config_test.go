// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/invowk/pkgtarget/internal/issue"
	"github.com/invowk/pkgtarget/internal/testutil"
	"github.com/invowk/pkgtarget/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return testutil.MustWriteFile(t, dir, ConfigFileName+"."+ConfigFileExt, content)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if !cfg.Compat.Enabled {
		t.Error("compat should be enabled by default")
	}
	if cfg.Compat.ProbeTimeout != "500ms" {
		t.Errorf("ProbeTimeout = %q, want 500ms", cfg.Compat.ProbeTimeout)
	}
	if cfg.Log.Level != LogLevelWarn {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Target != "" {
		t.Errorf("Target = %q, want empty", cfg.Target)
	}
	if ok, errs := cfg.IsValid(); !ok {
		t.Errorf("default config invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/tmp/pkgtarget-test")
	dir, err := ConfigDir()
	if err != nil || dir != "/tmp/pkgtarget-test" {
		t.Errorf("ConfigDir() = (%q, %v), want override", dir, err)
	}

	Reset()
	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))
	t.Cleanup(testutil.MustSetenv(t, "XDG_CONFIG_HOME", filepath.Join(home, "xdg")))
	t.Cleanup(testutil.MustSetenv(t, "APPDATA", filepath.Join(home, "appdata")))

	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() unexpected error: %v", err)
	}
	if filepath.Base(dir) != AppName || !strings.HasPrefix(dir, home) {
		t.Errorf("ConfigDir() = %q, want %s directory under %q", dir, AppName, home)
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("LoadWithPath() unexpected error: %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}
	if !loaded.Config.Compat.Enabled || loaded.Config.Log.Level != LogLevelWarn {
		t.Errorf("Config = %+v, want defaults", loaded.Config)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
target: "linux_arm64"
compat: {
	enabled: false
	roots: ["/opt/linux", "/compat/ubuntu"]
	probe_timeout: "2s"
}
log: level: "debug"
ui: verbose: true
`)

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("LoadWithPath() unexpected error: %v", err)
	}
	cfg := loaded.Config
	if loaded.Path != path {
		t.Errorf("Path = %q, want %q", loaded.Path, path)
	}
	if cfg.Target != "linux_arm64" {
		t.Errorf("Target = %q", cfg.Target)
	}
	if cfg.Compat.Enabled {
		t.Error("Compat.Enabled = true, want false")
	}
	if len(cfg.Compat.Roots) != 2 || cfg.Compat.Roots[1] != "/compat/ubuntu" {
		t.Errorf("Compat.Roots = %v", cfg.Compat.Roots)
	}
	if cfg.Log.Level != LogLevelDebug || !cfg.UI.Verbose {
		t.Errorf("Log/UI = %+v / %+v", cfg.Log, cfg.UI)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("unset ColorScheme = %q, want default auto", cfg.UI.ColorScheme)
	}

	opts, err := cfg.Compat.ProbeOptions()
	if err != nil {
		t.Fatalf("ProbeOptions() unexpected error: %v", err)
	}
	if !opts.Disabled || opts.Timeout != 2*time.Second || len(opts.Roots) != 2 {
		t.Errorf("ProbeOptions() = %+v", opts)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "PKGTARGET_LOG_LEVEL", "info"))
	t.Cleanup(testutil.MustSetenv(t, "PKGTARGET_COMPAT_ENABLED", "false"))
	t.Cleanup(testutil.MustSetenv(t, "PKGTARGET_TARGET", "freebsd_x64"))

	dir := t.TempDir()
	writeConfig(t, dir, `log: level: "error"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("Log.Level = %q, want env override info", cfg.Log.Level)
	}
	if cfg.Compat.Enabled {
		t.Error("Compat.Enabled should be overridden to false")
	}
	if cfg.Target != "freebsd_x64" {
		t.Errorf("Target = %q, want freebsd_x64", cfg.Target)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "PKGTARGET_LOG_LEVEL", "loud"))

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("Load() error = %v, want ErrInvalidLogLevel", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Operation != "validate configuration" {
		t.Errorf("error should be an ActionableError for validation, got %T", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", `bogus: true`, "bogus"},
		{"bad level", `log: level: "loud"`, "level"},
		{"bad timeout", `compat: probe_timeout: "soon"`, "probe_timeout"},
		{"bad target", `target: "linux__gnu"`, "target"},
		{"syntax", `compat: {`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
			if err == nil {
				t.Fatal("Load() expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.Operation != "load configuration" || len(ae.Suggestions) == 0 {
				t.Errorf("ActionableError = %+v", ae)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, dir, "custom.cue", `ui: color_scheme: "dark"`)

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("LoadWithPath() unexpected error: %v", err)
	}
	if loaded.Path != path || loaded.Config.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("LoadWithPath() = %+v", loaded)
	}

	_, err = LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(filepath.Join(dir, "missing.cue"))})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() unexpected error: %v", err)
	}

	p, exists, err := ConfigFilePath(LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil || !exists || p != path {
		t.Errorf("ConfigFilePath() = (%q, %v, %v), want (%q, true)", p, exists, err, path)
	}

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if loaded.Path != path || !loaded.Config.Compat.Enabled {
		t.Errorf("loaded = %+v", loaded)
	}

	again, err := CreateDefaultConfig(dir)
	if err != nil || again != path {
		t.Errorf("second CreateDefaultConfig() = (%q, %v)", again, err)
	}
}

func TestGenerateCUE(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Target = "linux_x64"
	cfg.Compat.Roots = []types.FilesystemPath{"/compat/linux"}

	out := GenerateCUE(cfg)
	for _, want := range []string{`target: "linux_x64"`, `"/compat/linux",`, `probe_timeout: "500ms"`, `level: "warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q:\n%s", want, out)
		}
	}
}
