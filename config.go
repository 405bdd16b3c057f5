package depot

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds global sizing policy and logging for every entity index
var Config config = config{
	growthFactor:             1.5,
	shrinkThreshold:          0.6,
	shrinkFactor:             1.2,
	initialEntityCapacity:    1,
	initialComponentCapacity: 1,
	maxComponentTypes:        int(mask.MaxBits),
	logger:                   zerolog.Nop(),
}

type config struct {
	growthFactor             float64
	shrinkThreshold          float64
	shrinkFactor             float64
	initialEntityCapacity    int
	initialComponentCapacity int
	maxComponentTypes        int
	logger                   zerolog.Logger
}

// EnvConfig mirrors the environment variables understood by LoadConfigFromEnv.
// Zero values leave the current setting untouched.
type EnvConfig struct {
	GrowthFactor             float64 `config:"DEPOT_GROWTH_FACTOR"`
	ShrinkThreshold          float64 `config:"DEPOT_SHRINK_THRESHOLD"`
	ShrinkFactor             float64 `config:"DEPOT_SHRINK_FACTOR"`
	InitialEntityCapacity    int     `config:"DEPOT_INITIAL_ENTITY_CAPACITY"`
	InitialComponentCapacity int     `config:"DEPOT_INITIAL_COMPONENT_CAPACITY"`
	MaxComponentTypes        int     `config:"DEPOT_MAX_COMPONENT_TYPES"`
	LogLevel                 string  `config:"DEPOT_LOG_LEVEL"`
}

// LoadConfigFromEnv applies DEPOT_* environment variables to Config
func LoadConfigFromEnv() error {
	var env EnvConfig
	if err := jlconfig.FromEnv().To(&env); err != nil {
		return eris.Wrap(err, "failed to read environment")
	}
	return Config.Apply(env)
}

// Apply validates env and copies its non-zero fields into the config
func (c *config) Apply(env EnvConfig) error {
	if env.GrowthFactor != 0 {
		if err := c.SetGrowthFactor(env.GrowthFactor); err != nil {
			return err
		}
	}
	if env.ShrinkThreshold != 0 || env.ShrinkFactor != 0 {
		threshold, factor := c.shrinkThreshold, c.shrinkFactor
		if env.ShrinkThreshold != 0 {
			threshold = env.ShrinkThreshold
		}
		if env.ShrinkFactor != 0 {
			factor = env.ShrinkFactor
		}
		if err := c.SetShrinkPolicy(threshold, factor); err != nil {
			return err
		}
	}
	if env.InitialEntityCapacity != 0 || env.InitialComponentCapacity != 0 {
		entities, components := c.initialEntityCapacity, c.initialComponentCapacity
		if env.InitialEntityCapacity != 0 {
			entities = env.InitialEntityCapacity
		}
		if env.InitialComponentCapacity != 0 {
			components = env.InitialComponentCapacity
		}
		if err := c.SetInitialCapacity(entities, components); err != nil {
			return err
		}
	}
	if env.MaxComponentTypes != 0 {
		if err := c.SetMaxComponentTypes(env.MaxComponentTypes); err != nil {
			return err
		}
	}
	if env.LogLevel != "" {
		level, err := zerolog.ParseLevel(env.LogLevel)
		if err != nil {
			return eris.Wrapf(ErrInvalidConfig, "log level %q", env.LogLevel)
		}
		c.logger = c.logger.Level(level)
	}
	return nil
}

// SetGrowthFactor sets the multiplier used when arrays grow: new = factor*requested + 1
func (c *config) SetGrowthFactor(factor float64) error {
	if factor <= 1 {
		return eris.Wrapf(ErrInvalidConfig, "growth factor must be > 1, got %v", factor)
	}
	c.growthFactor = factor
	return nil
}

// SetShrinkPolicy configures compaction: storage shrinks to factor*live + 1 once
// utilization drops below threshold
func (c *config) SetShrinkPolicy(threshold, factor float64) error {
	if threshold <= 0 || threshold >= 1 {
		return eris.Wrapf(ErrInvalidConfig, "shrink threshold must be in (0, 1), got %v", threshold)
	}
	if factor < 1 {
		return eris.Wrapf(ErrInvalidConfig, "shrink factor must be >= 1, got %v", factor)
	}
	if factor*threshold >= 1 {
		return eris.Wrapf(ErrInvalidConfig, "shrink factor %v with threshold %v would never shrink", factor, threshold)
	}
	c.shrinkThreshold = threshold
	c.shrinkFactor = factor
	return nil
}

// SetInitialCapacity sets the array sizes (sentinel slot included) of new indexes and stores
func (c *config) SetInitialCapacity(entities, components int) error {
	if entities < 1 || components < 1 {
		return eris.Wrapf(ErrInvalidConfig, "initial capacities must be >= 1, got %d/%d", entities, components)
	}
	c.initialEntityCapacity = entities
	c.initialComponentCapacity = components
	return nil
}

// SetMaxComponentTypes bounds how many component types a Registry accepts, at most
// mask.MaxBits
func (c *config) SetMaxComponentTypes(n int) error {
	if n < 1 || n > int(mask.MaxBits) {
		return eris.Wrapf(ErrInvalidConfig, "max component types must be in [1, %d], got %d", mask.MaxBits, n)
	}
	c.maxComponentTypes = n
	return nil
}

// SetLogger replaces the logger handed to entity indexes created afterwards
func (c *config) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// Logger returns the configured base logger
func (c *config) Logger() zerolog.Logger {
	return c.logger
}

func grownCapacity(requested int) int {
	return int(float64(requested)*Config.growthFactor) + 1
}

// shrunkCapacity reports the new array size for live entries (sentinel excluded)
// when utilization has dropped below the shrink threshold.
func shrunkCapacity(live, capacity int) (int, bool) {
	if float64(live) >= Config.shrinkThreshold*float64(capacity) {
		return capacity, false
	}
	size := int(Config.shrinkFactor*float64(live)) + 1
	if size >= capacity {
		return capacity, false
	}
	return size, true
}
