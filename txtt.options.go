package txtt

import (
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	logger        *zap.Logger
	ignoreDynamic bool
	clock         func() time.Time
	translator    *MetaTranslator
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		logger:        nil,
		ignoreDynamic: false,
		clock:         time.Now,
		translator:    nil,
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithIgnoreDynamic disables meta-constants. Reserved identifiers such as
// $Year then need an entry in the content state like any other constant.
// Default: false
func WithIgnoreDynamic(ignore bool) Option {
	return func(c *engineConfig) {
		c.ignoreDynamic = ignore
	}
}

// WithClock sets the time source for meta-constants.
// Default: time.Now
func WithClock(clock func() time.Time) Option {
	return func(c *engineConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTranslator sets the translator for localized month and day names.
// Default: a translator built from the embedded catalogues
func WithTranslator(translator *MetaTranslator) Option {
	return func(c *engineConfig) {
		c.translator = translator
	}
}
