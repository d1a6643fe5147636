// Package config loads runtime settings from a YAML file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/model"
)

// Duration decodes YAML durations written as "30s" or "10m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full runtime configuration.
type Config struct {
	Env string `yaml:"env" validate:"omitempty,oneof=development production"`

	Source struct {
		BaseURL  string   `yaml:"base_url" validate:"required,url"`
		LivePath string   `yaml:"live_path" validate:"required"`
		Timeout  Duration `yaml:"timeout"`
	} `yaml:"source"`

	Database struct {
		URI         string `yaml:"uri" validate:"required"`
		MaxBatchOps int    `yaml:"max_batch_ops" validate:"gte=1"`
	} `yaml:"database"`

	Server struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"server"`

	Scheduler struct {
		Timezone   string   `yaml:"timezone" validate:"required"`
		Interval   Duration `yaml:"interval"`
		DailyStart int      `yaml:"daily_start_hour" validate:"gte=0,lte=23"`
		DailyEnd   int      `yaml:"daily_end_hour" validate:"gte=0,lte=23"`
	} `yaml:"scheduler"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Env: "development"}
	cfg.Source.BaseURL = "https://www.dse.co.tz"
	cfg.Source.LivePath = "/live-market-prices"
	cfg.Source.Timeout = Duration(30 * time.Second)
	cfg.Database.URI = "dse.db"
	cfg.Database.MaxBatchOps = model.DefaultMaxBatchOps
	cfg.Server.Addr = ":8080"
	cfg.Scheduler.Timezone = "Africa/Dar_es_Salaam"
	cfg.Scheduler.Interval = Duration(10 * time.Minute)
	cfg.Scheduler.DailyStart = 19
	cfg.Scheduler.DailyEnd = 23
	return cfg
}

// Load reads path (optional), overlays environment variables and
// validates the result. A .env file in the working directory is loaded
// first if present.
func Load(path string) (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Scheduler.DailyEnd < cfg.Scheduler.DailyStart {
		return nil, fmt.Errorf("invalid config: daily window ends before it starts")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DSE_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("DSE_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("DSE_LIVE_PATH"); v != "" {
		c.Source.LivePath = v
	}
	if v := os.Getenv("DSE_DB_URI"); v != "" {
		c.Database.URI = v
	}
	if v := os.Getenv("DSE_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DSE_TIMEZONE"); v != "" {
		c.Scheduler.Timezone = v
	}
	if v := os.Getenv("DSE_MAX_BATCH_OPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Database.MaxBatchOps = n
		}
	}
}

// DBConfig converts the database section into driver settings.
func (c *Config) DBConfig() model.DBConfig {
	cfg := database.ParseURI(c.Database.URI)
	cfg.MaxBatchOps = c.Database.MaxBatchOps
	return cfg
}

// Production reports whether the deployment environment is production.
func (c *Config) Production() bool {
	return c.Env == "production"
}
