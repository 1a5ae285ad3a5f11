// Package config reads run settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/parkroute/internal/algo"
	"github.com/elektrokombinacija/parkroute/internal/core"
	"github.com/elektrokombinacija/parkroute/internal/logger"
)

// Prefix is prepended to every variable name.
const Prefix = "PARKROUTE_"

// ErrInvalidConfig marks a variable that could not be parsed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of a slot search run.
type Config struct {
	MapsDir                 string
	Strategy                string
	Category                core.SlotCategory
	DesiredFloor            *int
	WeightLobby             float64
	WeightCar               float64
	Workers                 int
	MaxExpansions           int
	CandidateLimit          int
	StrictStrategy          bool
	ExcludeUnreachableLobby bool
	LogLevel                zerolog.Level
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	wl, wc := algo.PreferLobby.Weights()
	return Config{
		MapsDir:     "maps",
		Strategy:    algo.AStar.Name(),
		Category:    core.Normal,
		WeightLobby: wl,
		WeightCar:   wc,
		Workers:     1,
		LogLevel:    zerolog.InfoLevel,
	}
}

// Load reads the given .env files (".env" if none), then the process
// environment. Missing .env files are not an error; existing variables win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, starting from Default.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.strVar("MAPS_DIR", &cfg.MapsDir)
	p.strVar("STRATEGY", &cfg.Strategy)
	if v, ok := p.get("CATEGORY"); ok {
		cat, valid := core.ParseCategory(v)
		if !valid {
			p.fail("CATEGORY", v, "want P, L or D")
		}
		cfg.Category = cat
	}
	if v, ok := p.get("DESIRED_FLOOR"); ok && !strings.EqualFold(v, "none") {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			p.fail("DESIRED_FLOOR", v, "want a floor index or none")
		} else {
			cfg.DesiredFloor = &n
		}
	}
	if v, ok := p.get("PREFERENCE"); ok {
		pref, err := algo.ParsePreference(v)
		if err != nil {
			p.fail("PREFERENCE", v, "want lobby or car")
		} else {
			cfg.WeightLobby, cfg.WeightCar = pref.Weights()
		}
	}
	p.floatVar("WEIGHT_LOBBY", &cfg.WeightLobby)
	p.floatVar("WEIGHT_CAR", &cfg.WeightCar)
	p.intVar("WORKERS", &cfg.Workers)
	p.intVar("MAX_EXPANSIONS", &cfg.MaxExpansions)
	p.intVar("CANDIDATE_LIMIT", &cfg.CandidateLimit)
	p.boolVar("STRICT_STRATEGY", &cfg.StrictStrategy)
	p.boolVar("EXCLUDE_UNREACHABLE_LOBBY", &cfg.ExcludeUnreachableLobby)
	if v, ok := p.get("LOG_LEVEL"); ok {
		cfg.LogLevel = logger.ParseLevel(v)
	}

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.WeightLobby < 0 || c.WeightCar < 0 {
		return fmt.Errorf("weights must be non-negative: %w", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1: %w", ErrInvalidConfig)
	}
	if c.MaxExpansions < 0 || c.CandidateLimit < 0 {
		return fmt.Errorf("limits must be non-negative: %w", ErrInvalidConfig)
	}
	return nil
}

// Request builds the slot request described by the configuration.
func (c Config) Request(log *zerolog.Logger) (algo.Request, error) {
	strategy, err := algo.ResolveStrategy(c.Strategy, c.StrictStrategy, log)
	if err != nil {
		return algo.Request{}, err
	}
	return algo.Request{
		Strategy:     strategy,
		Category:     c.Category,
		DesiredFloor: c.DesiredFloor,
		WeightLobby:  c.WeightLobby,
		WeightCar:    c.WeightCar,
	}, nil
}

// Selector builds a selector with the configured policy.
func (c Config) Selector(log *zerolog.Logger) *algo.Selector {
	s := algo.NewSelector()
	s.Workers = c.Workers
	s.MaxExpansions = c.MaxExpansions
	s.CandidateLimit = c.CandidateLimit
	s.ExcludeUnreachableLobby = c.ExcludeUnreachableLobby
	if log != nil {
		s.Log = log
	}
	return s
}

// parser keeps the first error so every field can be read unconditionally.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(Prefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) fail(key, value, hint string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s%s=%q: %s: %w", Prefix, key, value, hint, ErrInvalidConfig)
	}
}

func (p *parser) strVar(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) intVar(key string, dst *int) {
	if v, ok := p.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, v, "not an integer")
			return
		}
		*dst = n
	}
}

func (p *parser) floatVar(key string, dst *float64) {
	if v, ok := p.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, v, "not a number")
			return
		}
		*dst = f
	}
}

func (p *parser) boolVar(key string, dst *bool) {
	if v, ok := p.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, v, "not a boolean")
			return
		}
		*dst = b
	}
}
