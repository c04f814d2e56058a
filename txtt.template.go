package txtt

import (
	"github.com/itsatony/go-txtt/internal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Template is a parsed template. It is immutable and may be resolved any
// number of times, concurrently, against different content.
type Template struct {
	source string
	node   *internal.TemplateNode
	locale language.Tag
	engine *Engine
}

// Requirements lists the distinct identifiers a template references,
// defaults included, in first-appearance order.
type Requirements struct {
	Keys      []string
	Options   []string
	Constants []string // constants that must come from the content state
	Meta      []string // reserved meta-constants
}

func newTemplate(source string, node *internal.TemplateNode, engine *Engine) (*Template, error) {
	tag, err := internal.ParseLocale(node.Locale)
	if err != nil {
		return nil, NewParseError(&internal.ParseError{
			Kind:    internal.ParseErrorInvalidLocale,
			Message: internal.ErrMsgInvalidLocale,
			Found:   node.Locale,
		})
	}
	return &Template{
		source: source,
		node:   node,
		locale: tag,
		engine: engine,
	}, nil
}

// Source returns the original template source.
func (t *Template) Source() string {
	return t.source
}

// Locale returns the template locale as a language tag.
func (t *Template) Locale() language.Tag {
	return t.locale
}

// LocaleString returns the locale as written in the header, or DefaultLocale.
func (t *Template) LocaleString() string {
	return t.node.Locale
}

// HasLocaleHeader reports whether the source declared its locale.
func (t *Template) HasLocaleHeader() bool {
	return t.node.LocaleExplicit
}

// Len returns the number of top-level elements.
func (t *Template) Len() int {
	return len(t.node.Body)
}

// String returns a debug representation of the parsed template.
func (t *Template) String() string {
	return t.node.String()
}

// Requirements reports what content the template references.
func (t *Template) Requirements() *Requirements {
	req := &Requirements{}
	seen := make(map[string]bool)
	add := func(list *[]string, kind, id string) {
		if k := kind + ":" + id; !seen[k] {
			seen[k] = true
			*list = append(*list, id)
		}
	}

	internal.Walk(t.node.Body, func(el internal.Element, _ int) bool {
		switch e := el.(type) {
		case *internal.KeyElement:
			add(&req.Keys, ElementKindKey, e.ID)
		case *internal.OptionElement:
			add(&req.Options, ElementKindOption, e.ID)
		case *internal.ConstantElement:
			if t.engine.meta.Has(e.ID) {
				add(&req.Meta, ElementKindMeta, e.ID)
			} else {
				add(&req.Constants, ElementKindConstant, e.ID)
			}
		}
		return true
	})
	return req
}

// Resolve fills out the template using the engine's meta-constant setting.
func (t *Template) Resolve(state *ContentState, content *VolatileContent) (string, error) {
	return t.ResolveWith(state, content, t.engine.config.ignoreDynamic)
}

// ResolveWith fills out the template. When ignoreDynamic is true, meta-constants
// are treated as ordinary constants. The first failure in document order is
// returned and no partial output is produced. Nil content is treated as empty.
func (t *Template) ResolveWith(state *ContentState, content *VolatileContent, ignoreDynamic bool) (string, error) {
	logger := t.engine.logger
	logger.Debug(LogMsgResolveStart,
		zap.String(LogFieldLocale, t.locale.String()),
		zap.Bool(LogFieldIgnoreDyn, ignoreDynamic),
	)

	r := &resolver{
		state:         state,
		content:       content,
		meta:          t.engine.meta,
		locale:        t.locale,
		now:           t.engine.meta.now(),
		ignoreDynamic: ignoreDynamic,
		logger:        logger,
	}
	out, err := r.resolve(t.node.Body)
	if err != nil {
		logger.Debug(LogMsgResolveFailed, zap.Error(err))
		return "", err
	}

	logger.Debug(LogMsgResolveEnd, zap.Int(LogFieldOutputLen, len(out)))
	return out, nil
}

// Draft lists the keys and options the template needs, using the engine's
// meta-constant setting for default hints.
func (t *Template) Draft(state *ContentState) *Draft {
	return t.DraftWith(state, t.engine.config.ignoreDynamic)
}

// DraftWith is Draft with an explicit meta-constant setting.
func (t *Template) DraftWith(state *ContentState, ignoreDynamic bool) *Draft {
	logger := t.engine.logger
	logger.Debug(LogMsgDraftStart)

	d := &drafter{
		state:         state,
		meta:          t.engine.meta,
		locale:        t.locale,
		now:           t.engine.meta.now(),
		ignoreDynamic: ignoreDynamic,
		logger:        logger,
	}
	out := d.draft(t.node.Body)

	logger.Debug(LogMsgDraftEnd,
		zap.Int(LogFieldKeys, len(out.Keys)),
		zap.Int(LogFieldOptions, len(out.Options)),
	)
	return out
}
