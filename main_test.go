package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-smallpaint/pkg/config"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"smallpaint"}, args...))
	return out.String(), err
}

func TestApp_ConfigCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		expectErr bool
		check     func(t *testing.T, cfg config.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg config.Config) {
				if cfg != config.Default() {
					t.Errorf("Expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name: "flag overrides",
			args: []string{"--width", "64", "--spp", "7", "--sampler", "halton", "--storage", "linear", "--jitter"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Width != 64 || cfg.Height != config.Default().Height {
					t.Errorf("Expected 64x%d, got %dx%d", config.Default().Height, cfg.Width, cfg.Height)
				}
				if cfg.SamplesPerPixel != 7 || cfg.Sampler != "halton" || cfg.Storage.Kind != "linear" || !cfg.Jitter {
					t.Errorf("Flags not applied: %+v", cfg)
				}
			},
		},
		{
			name:      "invalid override",
			args:      []string{"--tracer", "whitted"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, append([]string{"config"}, tt.args...)...)
			if tt.expectErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			cfg, err := config.Parse([]byte(out))
			if err != nil {
				t.Fatalf("Expected printed config to parse, got %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestApp_VersionAndVerboseFlags(t *testing.T) {
	out, err := runApp(t, "--version")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "0.1.0") {
		t.Errorf("Expected version in output, got %q", out)
	}

	out, err = runApp(t, "-v", "config", "--tracer", "simple")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg, err := config.Parse([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tracer != config.SimpleTracer {
		t.Errorf("Expected tracer %q, got %q", config.SimpleTracer, cfg.Tracer)
	}
}

func TestApp_ConfigFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte("width: 40\nheight: 30\nscene: ring-caustics\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, "config", "--config", path, "--height", "20")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg, err := config.Parse([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 20 || cfg.Scene != "ring-caustics" {
		t.Errorf("Expected 40x20 ring-caustics, got %dx%d %s", cfg.Width, cfg.Height, cfg.Scene)
	}
}

func TestApp_ScenesCommand(t *testing.T) {
	out, err := runApp(t, "scenes")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, name := range []string{"three-spheres", "three-cylinders", "lenses-and-bars", "ring-caustics", "glass-and-rings.yaml"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %s in scene list", name)
		}
	}
}

func TestApp_RenderWritesImage(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file   string
		header []byte
	}{
		{"out.ppm", []byte("P3\n6 4\n255\n")},
		{"nested/out.png", []byte("\x89PNG")},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			_, err := runApp(t, "render", "--width", "6", "--height", "4", "--spp", "2", "--workers", "2", "--out", path)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, tt.header) {
				t.Errorf("Expected header %q, got %q", tt.header, data[:min(len(data), 16)])
			}
		})
	}
}
