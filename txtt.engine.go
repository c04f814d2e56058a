package txtt

import (
	"errors"

	"github.com/itsatony/go-txtt/internal"
	"go.uber.org/zap"
)

// Engine parses templates and holds the configuration shared by the
// templates it produces. It has no mutable state and is safe for concurrent use.
type Engine struct {
	config *engineConfig
	meta   *MetaRegistry
	logger *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	translator := config.translator
	if translator == nil {
		var err error
		translator, err = NewMetaTranslator(logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug(LogMsgEngineCreated, zap.Bool(LogFieldIgnoreDyn, config.ignoreDynamic))

	return &Engine{
		config: config,
		meta:   NewMetaRegistry(config.clock, translator),
		logger: logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parse parses a template source string and returns a Template.
// The returned Template can be resolved multiple times with different content.
func (e *Engine) Parse(source string) (*Template, error) {
	e.logger.Debug(LogMsgParseStart)

	node, err := internal.NewParser(source, e.logger).Parse()
	if err != nil {
		e.logger.Debug(LogMsgParseFailed, zap.Error(err))
		var perr *internal.ParseError
		if errors.As(err, &perr) {
			return nil, NewParseError(perr)
		}
		return nil, err
	}

	tmpl, err := newTemplate(source, node, e)
	if err != nil {
		return nil, err
	}

	e.logger.Debug(LogMsgParseEnd,
		zap.Int(LogFieldElements, len(node.Body)),
		zap.String(LogFieldLocale, node.Locale),
	)
	return tmpl, nil
}

// MustParse parses a template and panics if there's an error.
func (e *Engine) MustParse(source string) *Template {
	tmpl, err := e.Parse(source)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Compile is a convenience method that parses and resolves in one step.
// For templates that will be resolved multiple times, use Parse() instead.
func (e *Engine) Compile(source string, state *ContentState, content *VolatileContent) (string, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Resolve(state, content)
}

// Draft parses a template and drafts the volatile content it needs.
func (e *Engine) Draft(source string, state *ContentState) (*Draft, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return tmpl.Draft(state), nil
}

// IgnoreDynamic reports whether meta-constants are disabled by default.
func (e *Engine) IgnoreDynamic() bool {
	return e.config.ignoreDynamic
}
