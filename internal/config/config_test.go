package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gserrors "github.com/matzehuels/graphscope/pkg/errors"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/positions"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Engine.Layout != graph.LayoutForce || c.Engine.NodeSizeBy != graph.SizeByCount {
		t.Errorf("engine defaults = %+v", c.Engine)
	}
	if c.Debounce() != 400*time.Millisecond {
		t.Errorf("Debounce() = %v", c.Debounce())
	}
	if c.TTL() != positions.DefaultTTL {
		t.Errorf("TTL() = %v", c.TTL())
	}
	if c.Cache.Backend != CacheFile || c.Server.Addr != DefaultServerAddr {
		t.Errorf("cache/server defaults = %+v %+v", c.Cache, c.Server)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[engine]
layout = "circular"
node_size_by = "degree"
max_nodes = 500
debounce_ms = 250

[colors.person]
color = "#112233"
label = "People"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "2h"

[server]
addr = "127.0.0.1:9000"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Engine.Layout != graph.LayoutCircular || c.Engine.NodeSizeBy != graph.SizeByDegree || c.Engine.MaxNodes != 500 {
		t.Errorf("engine = %+v", c.Engine)
	}
	if c.Debounce() != 250*time.Millisecond || c.TTL() != 2*time.Hour {
		t.Errorf("durations = %v %v", c.Debounce(), c.TTL())
	}
	colors := c.EntityColors()
	if got := colors[graph.EntityPerson]; got.Color != "#112233" || got.Label != "People" {
		t.Errorf("person style = %+v", got)
	}
	if c.Cache.Backend != CacheRedis || c.Cache.RedisAddr != "cache:6379" || c.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("cache/server = %+v %+v", c.Cache, c.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code gserrors.Code
	}{
		{"syntax", "[engine\n", gserrors.ErrCodeInvalidInput},
		{"unknown key", "[engine]\nzoom = 2\n", gserrors.ErrCodeInvalidInput},
		{"layout", "[engine]\nlayout = \"spiral\"\n", gserrors.ErrCodeInvalidLayout},
		{"size by", "[engine]\nnode_size_by = \"rank\"\n", gserrors.ErrCodeInvalidSizeBy},
		{"color", "[colors.place]\ncolor = \"green\"\n", gserrors.ErrCodeInvalidColor},
		{"backend", "[cache]\nbackend = \"mongo\"\n", gserrors.ErrCodeInvalidInput},
		{"ttl", "[cache]\nttl = \"soon\"\n", gserrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !gserrors.Is(err, tt.code) {
				t.Errorf("Load() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := Load(missing); !gserrors.Is(err, gserrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("implicit missing file = %v, want defaults", err)
	}
	if c.Engine.Layout != graph.LayoutForce {
		t.Errorf("layout = %q", c.Engine.Layout)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "graphscope", FileName); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
