package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

//go:embed config.schema.json
var configSchema string

type Config struct {
	// Frame range, both ends included
	StartFrame int `json:"startFrame" yaml:"startFrame"`
	EndFrame   int `json:"endFrame" yaml:"endFrame"`

	Settings behavior.Settings `json:"settings" yaml:"settings"`

	Workers           int     `json:"workers" yaml:"workers"` // goroutines per simulation pass
	LogLevel          string  `json:"logLevel" yaml:"logLevel"`
	RunTimeoutSeconds float64 `json:"runTimeoutSeconds" yaml:"runTimeoutSeconds"`

	Sink   SinkConfig    `json:"sink" yaml:"sink"`
	Agents []AgentConfig `json:"agents" yaml:"agents"`
	Spawn  *SpawnConfig  `json:"spawn,omitempty" yaml:"spawn,omitempty"`
}

// SinkConfig selects where keyframes go.
type SinkConfig struct {
	Kind string `json:"kind" yaml:"kind"` // memory, stream or sqlite
	Path string `json:"path" yaml:"path"`
}

// AgentConfig describes one host object to register.
type AgentConfig struct {
	Name     string           `json:"name" yaml:"name"`
	Kind     string           `json:"kind" yaml:"kind"`
	Position geometry.Vector3 `json:"position" yaml:"position"`
	Velocity geometry.Vector3 `json:"velocity" yaml:"velocity"`
}

// SpawnConfig generates Count agents scattered around Center.
type SpawnConfig struct {
	Count  int              `json:"count" yaml:"count"`
	Seed   uint64           `json:"seed" yaml:"seed"`
	Prefix string           `json:"prefix" yaml:"prefix"`
	Kind   string           `json:"kind" yaml:"kind"`
	Center geometry.Vector3 `json:"center" yaml:"center"`
	Spread float64          `json:"spread" yaml:"spread"` // half side of the spawn cube
	Speed  float64          `json:"speed" yaml:"speed"`   // initial speed, random heading
}

func DefaultConfig() *Config {
	return &Config{
		StartFrame:        1,
		EndFrame:          250,
		Settings:          behavior.DefaultSettings(),
		Workers:           1,
		LogLevel:          "info",
		RunTimeoutSeconds: 300,
		Sink:              SinkConfig{Kind: "memory"},
	}
}

// RunTimeout is the time allowed to a single run request.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSeconds * float64(time.Second))
}

// LoadConfig loads configuration from a JSON or YAML file and validates it
// against the embedded schema. Missing fields keep their DefaultConfig value.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// YAML is validated through its JSON form so both formats obey the same schema.
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		if b, err = yamlToJSON(b); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the constraints of the schema on a Config built in code.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if !(c.RunTimeoutSeconds > 0) {
		return fmt.Errorf("%w: runTimeoutSeconds must be > 0, got %v", ErrInvalidConfig, c.RunTimeoutSeconds)
	}
	switch c.Sink.Kind {
	case "", "memory":
	case "stream", "sqlite":
		if c.Sink.Path == "" {
			return fmt.Errorf("%w: %s sink needs a path", ErrInvalidConfig, c.Sink.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown sink kind %q", ErrInvalidConfig, c.Sink.Kind)
	}
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agent %d has no name", ErrInvalidConfig, i)
		}
	}
	if c.Spawn != nil {
		return c.Spawn.Validate()
	}
	return nil
}

func yamlToJSON(b []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = map[string]interface{}{}
	}
	return json.Marshal(v)
}

// NamedPlacement is a host object name with the placement it registers with.
type NamedPlacement struct {
	Ref       HostRef
	Placement Placement
}

// Placements lists the explicit agents followed by the spawned ones.
func (c *Config) Placements() ([]NamedPlacement, error) {
	out := make([]NamedPlacement, 0, len(c.Agents))
	for _, a := range c.Agents {
		kind, err := behavior.ParseAgentKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", a.Name, err)
		}
		out = append(out, NamedPlacement{
			Ref:       HostRef(a.Name),
			Placement: Placement{Position: a.Position, Velocity: a.Velocity, Kind: kind},
		})
	}
	if c.Spawn != nil {
		spawned, err := c.Spawn.Generate()
		if err != nil {
			return nil, err
		}
		out = append(out, spawned...)
	}
	return out, nil
}
