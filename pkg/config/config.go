package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Game board dimensions
const (
	StandardWidth  = 25
	StandardHeight = 25
	MinSide        = 5  // Smallest board that still fits the default start
	UnitSize       = 20 // Pixels per cell, only used by graphical renderers
)

// Initial layout restored by every reset: a two-segment snake heading right
// and the first apple further along the same row.
const (
	StartHeadX  = 5
	StartHeadY  = 4
	StartLength = 2
	StartAppleX = 10
	StartAppleY = 4
)

// Driver defaults
const (
	DefaultEpisodes   = 1
	DefaultFrameDelay = 150 * time.Millisecond
	DefaultAgent      = AgentRandom
	DefaultNamespace  = "snakegym"
	EnvPrefix         = "SNAKEGYM"
)

// Agent kinds accepted in agent.kind
const (
	AgentRandom = "random"
	AgentGreedy = "greedy"
)

// Emoji characters for rendering
const (
	CharEmpty = "  " // Two spaces to match emoji width
	CharWall  = "⬜"
	CharHead  = "🟢"
	CharBody  = "🟩"
	CharApple = "🍎"
	CharCrash = "💥"
)

type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Run     RunConfig     `mapstructure:"run"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type GridConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	Unit   int `mapstructure:"unit"`
}

type AgentConfig struct {
	Kind string `mapstructure:"kind"`
	Seed uint64 `mapstructure:"seed"` // 0 means seed from the clock
}

type RunConfig struct {
	Episodes   int           `mapstructure:"episodes"`
	MaxSteps   int           `mapstructure:"max_steps"` // 0 disables truncation
	FrameDelay time.Duration `mapstructure:"frame_delay"`
	Render     bool          `mapstructure:"render"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type MetricsConfig struct {
	Addr      string `mapstructure:"addr"` // empty disables the /metrics listener
	Namespace string `mapstructure:"namespace"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Width:  StandardWidth,
			Height: StandardHeight,
			Unit:   UnitSize,
		},
		Agent: AgentConfig{Kind: DefaultAgent},
		Run: RunConfig{
			Episodes:   DefaultEpisodes,
			FrameDelay: DefaultFrameDelay,
			Render:     true,
		},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Namespace: DefaultNamespace},
	}
}

// Load reads config.yaml from path (if any), then .env, then SNAKEGYM_*
// environment variables. Missing files are not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("grid.width", d.Grid.Width)
	v.SetDefault("grid.height", d.Grid.Height)
	v.SetDefault("grid.unit", d.Grid.Unit)
	v.SetDefault("agent.kind", d.Agent.Kind)
	v.SetDefault("agent.seed", d.Agent.Seed)
	v.SetDefault("run.episodes", d.Run.Episodes)
	v.SetDefault("run.max_steps", d.Run.MaxSteps)
	v.SetDefault("run.frame_delay", d.Run.FrameDelay)
	v.SetDefault("run.render", d.Run.Render)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
}

// Validate rejects settings the game or driver cannot run with
func (c *Config) Validate() error {
	if c.Grid.Width < MinSide || c.Grid.Height < MinSide {
		return fmt.Errorf("grid must be at least %dx%d, got %dx%d", MinSide, MinSide, c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.Width < StartAppleX+2 || c.Grid.Height < StartHeadY+2 {
		// The default apple sits at x=10, so narrower boards need a custom start.
		return fmt.Errorf("grid %dx%d does not fit the default start layout", c.Grid.Width, c.Grid.Height)
	}
	switch c.Agent.Kind {
	case AgentRandom, AgentGreedy:
	default:
		return fmt.Errorf("unknown agent kind %q", c.Agent.Kind)
	}
	if c.Run.Episodes < 0 {
		return fmt.Errorf("run.episodes must not be negative, got %d", c.Run.Episodes)
	}
	if c.Run.MaxSteps < 0 {
		return fmt.Errorf("run.max_steps must not be negative, got %d", c.Run.MaxSteps)
	}
	if c.Run.FrameDelay < 0 {
		return fmt.Errorf("run.frame_delay must not be negative, got %s", c.Run.FrameDelay)
	}
	return nil
}
