package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8090" || cfg.ChunkSize != 4096 || cfg.MaxHistory != 5 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.ConfigWait.Std() != 2*time.Second {
		t.Errorf("ConfigWait = %v, want 2s", cfg.ConfigWait.Std())
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tala.yaml")
	body := "addr: \":9000\"\nchunk_size: 1024\ndefault_voice: nova\nchunk_pace: 10ms\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.ChunkSize != 1024 || cfg.DefaultVoice != "nova" {
		t.Errorf("file overrides not applied: %+v", cfg)
	}
	if cfg.ChunkPace.Std() != 10*time.Millisecond {
		t.Errorf("ChunkPace = %v, want 10ms", cfg.ChunkPace.Std())
	}
	// untouched fields keep defaults
	if cfg.MaxHistory != 5 {
		t.Errorf("MaxHistory = %d, want default 5", cfg.MaxHistory)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tala.yaml")
	if err := os.WriteFile(path, []byte("addr: [:::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("want error for malformed yaml")
	}
}

func TestLoadEnvSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENWEATHER_API_KEY", "owm-test")
	t.Setenv("NEWS_API_KEY", "news-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OpenAIKey != "sk-test" || cfg.WeatherKey != "owm-test" || cfg.NewsKey != "news-test" {
		t.Errorf("env secrets not loaded: %+v", cfg)
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Not/AZone"
	loc := cfg.Location()
	_, offset := time.Now().In(loc).Zone()
	if offset != 8*60*60 {
		t.Errorf("fallback offset = %d, want +8h", offset)
	}
}
