package txtt

import (
	"strings"
	"time"

	"github.com/itsatony/go-txtt/internal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// resolver fills out one template. It is created per call and never
// mutates the content it reads.
type resolver struct {
	state         *ContentState
	content       *VolatileContent
	meta          *MetaRegistry
	locale        language.Tag
	now           time.Time
	ignoreDynamic bool
	logger        *zap.Logger
}

func (r *resolver) resolve(body []internal.Element) (string, error) {
	var sb strings.Builder
	for _, el := range body {
		lit, err := r.resolveElement(el)
		if err != nil {
			return "", err
		}
		sb.WriteString(lit)
	}
	return sb.String(), nil
}

func (r *resolver) resolveElement(el internal.Element) (string, error) {
	switch e := el.(type) {
	case *internal.TextElement:
		return e.Content, nil
	case *internal.ConstantElement:
		return r.resolveConstant(e)
	case *internal.KeyElement:
		return r.resolveKey(e)
	case *internal.OptionElement:
		return r.resolveOption(e)
	default:
		return "", NewInternalResolutionError(el)
	}
}

func (r *resolver) resolveConstant(e *internal.ConstantElement) (string, error) {
	if !r.ignoreDynamic && r.meta != nil {
		if lit, ok := r.meta.lookupAt(e.ID, r.now, r.locale); ok {
			r.logger.Debug(LogMsgMetaResolved, zap.String(LogFieldIdentifier, e.ID))
			return lit, nil
		}
	}
	if lit, ok := r.state.Constant(e.ID); ok {
		return lit, nil
	}
	candidates := r.state.ConstantIDs()
	if !r.ignoreDynamic {
		candidates = append(candidates, MetaIdentifiers()...)
	}
	return "", NewUnknownConstantError(e.ID, e.Pos(), suggest(e.ID, candidates)...)
}

// resolveKey prefers volatile content. Supplied literals are opaque and never re-parsed.
func (r *resolver) resolveKey(e *internal.KeyElement) (string, error) {
	if lit, ok := r.content.Key(e.ID); ok {
		return lit, nil
	}
	if e.Default != nil {
		return r.resolveElement(e.Default)
	}
	return "", NewMissingKeyError(e.ID, e.Pos(), suggest(e.ID, r.content.KeyIDs())...)
}

// resolveOption requires the option to be declared even when a default exists.
// A chosen name outside the declared set is an error, not a reason to fall back.
func (r *resolver) resolveOption(e *internal.OptionElement) (string, error) {
	choices, ok := r.state.Option(e.ID)
	if !ok {
		return "", NewUnknownOptionError(e.ID, e.Pos(), suggest(e.ID, r.state.OptionIDs())...)
	}
	if choice, ok := r.content.Choice(e.ID); ok {
		lit, ok := choices[choice]
		if !ok {
			return "", NewUnknownChoiceError(e.ID, choice, e.Pos(), suggest(choice, choices.ChoiceNames())...)
		}
		return lit, nil
	}
	if e.Default != nil {
		return r.resolveElement(e.Default)
	}
	return "", NewMissingOptionError(e.ID, e.Pos(), suggest(e.ID, r.content.ChoiceIDs())...)
}

// suggest names close identifiers for error messages.
func suggest(id string, candidates []string) []string {
	return internal.SimilarIdentifiers(id, candidates, internal.MaxSuggestions)
}
