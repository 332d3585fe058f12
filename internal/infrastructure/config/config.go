package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/billheat/internal/heatmap"
)

const prefix = "BILLHEAT"

// Database holds libsql connection settings. URL may be a local
// "file:" path or a remote libsql:// / https:// Turso database.
type Database struct {
	URL       string `envconfig:"DATABASE_URL" default:"file:billheat.db"`
	AuthToken string `envconfig:"AUTH_TOKEN"`
}

// Gradient holds the heat-map anchors and step count. Steps of 0 means
// "one step per column of the reference row".
type Gradient struct {
	Start    string `envconfig:"GRADIENT_START" default:"#FF3F3F"`
	Middle   string `envconfig:"GRADIENT_MIDDLE" default:"#FCEF64"`
	Stop     string `envconfig:"GRADIENT_STOP" default:"#4AE27A"`
	Steps    int    `envconfig:"GRADIENT_STEPS" default:"0"`
	RankMode string `envconfig:"RANK_MODE" default:"stable"`
}

// Anchors parses the three anchor colors.
func (g Gradient) Anchors() (start, middle, stop heatmap.Color, err error) {
	if start, err = heatmap.FromHex(g.Start); err != nil {
		return start, middle, stop, fmt.Errorf("gradient start: %w", err)
	}
	if middle, err = heatmap.FromHex(g.Middle); err != nil {
		return start, middle, stop, fmt.Errorf("gradient middle: %w", err)
	}
	if stop, err = heatmap.FromHex(g.Stop); err != nil {
		return start, middle, stop, fmt.Errorf("gradient stop: %w", err)
	}
	return start, middle, stop, nil
}

// Palette builds the gradient for the given step count.
func (g Gradient) Palette(steps int) (heatmap.Palette, error) {
	start, middle, stop, err := g.Anchors()
	if err != nil {
		return nil, err
	}
	return heatmap.Gradient(steps, start, middle, stop)
}

// Telemetry holds OTEL metrics exporter settings.
type Telemetry struct {
	Enabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"OTEL_ENDPOINT"`
	Insecure bool   `envconfig:"OTEL_INSECURE" default:"false"`
}

// Server holds configuration for the web server.
type Server struct {
	Database  Database  `ignored:"true"`
	Gradient  Gradient  `ignored:"true"`
	Telemetry Telemetry `ignored:"true"`
	Port      int       `envconfig:"PORT" default:"8080"`
	LogLevel  string    `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadDotEnv loads .env files into the environment if present. Variables
// already set are not overridden.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// LoadDatabase loads only the database settings.
func LoadDatabase() (*Database, error) {
	var cfg Database
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer loads the full server configuration from the environment.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process(prefix, &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process(prefix, &cfg.Gradient); err != nil {
		return nil, err
	}
	if err := envconfig.Process(prefix, &cfg.Telemetry); err != nil {
		return nil, err
	}
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at render time.
func (c *Server) Validate() error {
	if _, _, _, err := c.Gradient.Anchors(); err != nil {
		return err
	}
	if c.Gradient.Steps < 0 {
		return fmt.Errorf("gradient steps must be >= 0, got %d", c.Gradient.Steps)
	}
	if _, err := heatmap.ParseRankMode(c.Gradient.RankMode); err != nil {
		return err
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}
