package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/graphscope/internal/config"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		base := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", base)
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir: %v", err)
		}
		if want := filepath.Join(base, "graphscope"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir: %v", err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", "graphscope"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestStoreLocation(t *testing.T) {
	tests := []struct {
		name  string
		cache config.Cache
		want  string
	}{
		{"none", config.Cache{Backend: config.CacheNone}, "none"},
		{"redis", config.Cache{Backend: config.CacheRedis, RedisAddr: "cache:6379"}, "redis://cache:6379/graphscope:"},
		{"file dir", config.Cache{Backend: config.CacheFile, Dir: "/var/snapshots"}, "/var/snapshots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.config.Cache = tt.cache
			if got := c.storeLocation(); got != tt.want {
				t.Errorf("storeLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	c := newTestCLI(t)
	c.config.Cache = config.Cache{Backend: config.CacheFile, Dir: dir}

	input := writeGraph(t, triangleJSON)
	if err := c.runLayout(testContext(t), input, testFlags(), filepath.Join(t.TempDir(), "out.json")); err != nil {
		t.Fatalf("runLayout: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) == 0 {
		t.Fatal("layout wrote no snapshot")
	}

	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear", "--config", writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+dir+"\"\n")})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("%d snapshots left after clear", len(entries))
	}
}
