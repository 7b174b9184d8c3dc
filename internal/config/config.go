package config

import (
	"os"

	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/optics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSamples     = 401
	DefaultHalfRangeMM = 10.0
	DefaultConvention  = "half"
	DefaultTheme       = "retro"
	DefaultLogLevel    = "info"
	DefaultListenAddr  = ":8080"
)

type Config struct {
	Name       string            `yaml:"name"`
	Parameters optics.Parameters `yaml:"parameters"`
	Limits     optics.Limits     `yaml:"limits"`
	Layout     geometry.Layout   `yaml:"layout"`
	Profile    ProfileConfig     `yaml:"profile"`
	Convention string            `yaml:"convention"`
	Theme      string            `yaml:"theme"`
	LogLevel   string            `yaml:"log_level"`
	Listen     string            `yaml:"listen"`
}

type ProfileConfig struct {
	HalfRangeMM float64 `yaml:"half_range_mm"`
	Samples     int     `yaml:"samples"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Parameters: optics.DefaultParameters(),
		Limits:     optics.DefaultLimits(),
		Layout:     geometry.DefaultLayout(),
		Profile: ProfileConfig{
			HalfRangeMM: DefaultHalfRangeMM,
			Samples:     DefaultSamples,
		},
		Convention: DefaultConvention,
		Theme:      DefaultTheme,
		LogLevel:   DefaultLogLevel,
		Listen:     DefaultListenAddr,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Window returns the profile sampling window in metres.
func (c *Config) Window() diffraction.Range {
	return diffraction.Symmetric(c.Profile.HalfRangeMM * optics.Millimetre)
}

func (c *Config) PhaseConvention() (diffraction.Convention, error) {
	return diffraction.ParseConvention(c.Convention)
}
