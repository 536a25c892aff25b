// Package config holds the daemon configuration: a YAML file for tunables,
// environment variables for secrets. Every field has a working default so a
// deployment can start from an empty file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Duration decodes YAML values like "30ms" or "2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(b []byte) error {
	v, err := time.ParseDuration(strings.Trim(string(b), `"' `))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Addr       string `yaml:"addr"`
	SocketPath string `yaml:"socket_path"`

	ChunkSize   int      `yaml:"chunk_size"`
	ChunkPace   Duration `yaml:"chunk_pace"`
	ConfigWait  Duration `yaml:"config_wait"`
	CallTimeout Duration `yaml:"call_timeout"`

	DefaultVoice  string `yaml:"default_voice"`
	DefaultPrompt string `yaml:"default_prompt"`

	HistoryFile string `yaml:"history_file"`
	MaxHistory  int    `yaml:"max_history"`

	Timezone string `yaml:"timezone"`

	WeatherURL string `yaml:"weather_url"`
	NewsURL    string `yaml:"news_url"`

	ProxyAddr string `yaml:"proxy_addr"`

	// from env, never from the file
	OpenAIKey  string `yaml:"-"`
	WeatherKey string `yaml:"-"`
	NewsKey    string `yaml:"-"`
}

const defaultPrompt = "You are Tala, a warm and witty voice assistant built by the tinkerer " +
	"Datu Reyes for his workshop companions. You speak English and Filipino. " +
	"Keep every reply short enough to be spoken aloud, two sentences at most."

func Default() Config {
	return Config{
		Addr:          ":8090",
		SocketPath:    "/tmp/tala.sock",
		ChunkSize:     4096,
		ChunkPace:     Duration(30 * time.Millisecond),
		ConfigWait:    Duration(2 * time.Second),
		CallTimeout:   Duration(30 * time.Second),
		DefaultVoice:  "alloy",
		DefaultPrompt: defaultPrompt,
		HistoryFile:   "history.json",
		MaxHistory:    5,
		Timezone:      "Asia/Manila",
		WeatherURL:    "https://api.openweathermap.org/data/2.5/weather",
		NewsURL:       "https://newsapi.org/v2/top-headlines",
	}
}

// Load reads the YAML file over the defaults, then overlays secrets from the
// environment. A missing file is fine; a malformed one is not.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults stand
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.WeatherKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.NewsKey = os.Getenv("NEWS_API_KEY")
	return cfg, nil
}

// Location resolves the configured timezone, falling back to fixed +8
// (Philippine standard time) when tzdata is unavailable.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}
