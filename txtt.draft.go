package txtt

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/itsatony/go-txtt/internal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Draft lists every key and option a template needs, with hints for filling
// them in. It is complete rather than incremental: elements that would already
// resolve through a default are listed too.
type Draft struct {
	Keys    []DraftKey
	Options []DraftOption
	// UnknownOptions holds options the template references but the content
	// state does not declare, in first-appearance order.
	UnknownOptions []string
}

// DraftKey is a key entry of a draft.
type DraftKey struct {
	ID string
	// Default is the literal the key falls back to, when that literal can be
	// computed from the content state alone.
	Default    string
	HasDefault bool
}

// DraftOption is an option entry of a draft.
type DraftOption struct {
	ID         string
	Declared   bool
	Choices    []DraftChoice // sorted by name; empty when not declared
	Default    string
	HasDefault bool
}

// DraftChoice is one available choice of an option.
type DraftChoice struct {
	Name    string
	Literal string
}

// drafter collects requirements without resolving the template.
type drafter struct {
	state         *ContentState
	meta          *MetaRegistry
	locale        language.Tag
	now           time.Time
	ignoreDynamic bool
	logger        *zap.Logger
}

func (d *drafter) draft(body []internal.Element) *Draft {
	out := &Draft{}
	keyIndex := make(map[string]int)
	optionIndex := make(map[string]int)

	internal.Walk(body, func(el internal.Element, _ int) bool {
		switch e := el.(type) {
		case *internal.KeyElement:
			i, seen := keyIndex[e.ID]
			if !seen {
				i = len(out.Keys)
				keyIndex[e.ID] = i
				out.Keys = append(out.Keys, DraftKey{ID: e.ID})
			}
			entry := &out.Keys[i]
			if !entry.HasDefault && e.Default != nil {
				entry.Default, entry.HasDefault = d.staticValue(e.Default)
			}
		case *internal.OptionElement:
			i, seen := optionIndex[e.ID]
			if !seen {
				i = len(out.Options)
				optionIndex[e.ID] = i
				out.Options = append(out.Options, d.newOption(e.ID))
				if !out.Options[i].Declared {
					out.UnknownOptions = append(out.UnknownOptions, e.ID)
					d.logger.Warn(LogMsgUnknownOption, zap.String(LogFieldIdentifier, e.ID))
				}
			}
			entry := &out.Options[i]
			if entry.Declared && !entry.HasDefault && e.Default != nil {
				entry.Default, entry.HasDefault = d.staticValue(e.Default)
			}
		}
		return true
	})

	return out
}

func (d *drafter) newOption(id string) DraftOption {
	opt := DraftOption{ID: id}
	choices, ok := d.state.Option(id)
	if !ok {
		return opt
	}
	opt.Declared = true
	for _, name := range choices.ChoiceNames() {
		opt.Choices = append(opt.Choices, DraftChoice{Name: name, Literal: choices[name]})
	}
	return opt
}

// staticValue resolves a default from the content state alone. Keys have no
// state-held value, so only their own defaults can contribute.
func (d *drafter) staticValue(el internal.Element) (string, bool) {
	switch e := el.(type) {
	case *internal.TextElement:
		return e.Content, true
	case *internal.ConstantElement:
		if !d.ignoreDynamic && d.meta != nil {
			if lit, ok := d.meta.lookupAt(e.ID, d.now, d.locale); ok {
				return lit, true
			}
		}
		return d.state.Constant(e.ID)
	case *internal.KeyElement:
		if e.Default == nil {
			return "", false
		}
		return d.staticValue(e.Default)
	case *internal.OptionElement:
		if _, ok := d.state.Option(e.ID); !ok || e.Default == nil {
			return "", false
		}
		return d.staticValue(e.Default)
	}
	return "", false
}

// Empty reports whether the template needs no volatile content at all.
func (d *Draft) Empty() bool {
	return len(d.Keys) == 0 && len(d.Options) == 0
}

// YAML renders the draft as a volatile content document. Every entry holds
// a null placeholder, so an unedited draft parses back to empty content.
func (d *Draft) YAML() ([]byte, error) {
	keys := mappingNode()
	for _, k := range d.Keys {
		value := placeholderNode()
		value.LineComment = defaultComment(k.Default, k.HasDefault)
		keys.Content = append(keys.Content, keyNode(k.ID), value)
	}

	choices := mappingNode()
	for _, o := range d.Options {
		name := keyNode(o.ID)
		value := placeholderNode()
		if o.Declared {
			name.HeadComment = choiceComments(o)
			value.LineComment = defaultComment(o.Default, o.HasDefault)
		} else {
			value.LineComment = DraftCommentUndeclared
		}
		choices.Content = append(choices.Content, name, value)
	}

	keysName := keyNode(FieldKeys)
	keysName.HeadComment = DraftCommentKeysHeader
	choicesName := keyNode(FieldChoices)
	choicesName.HeadComment = DraftCommentChoicesHeader

	root := mappingNode()
	root.Content = []*yaml.Node{keysName, flowIfEmpty(keys), choicesName, flowIfEmpty(choices)}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(DraftYAMLIndent)
	if err := enc.Encode(doc); err != nil {
		return nil, NewContentDecodeError(ErrMsgEncodeContentError, "", err)
	}
	if err := enc.Close(); err != nil {
		return nil, NewContentDecodeError(ErrMsgEncodeContentError, "", err)
	}
	return buf.Bytes(), nil
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func keyNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func placeholderNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
}

func flowIfEmpty(n *yaml.Node) *yaml.Node {
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	}
	return n
}

func defaultComment(def string, ok bool) string {
	if !ok {
		return DraftCommentNoDefault
	}
	return fmt.Sprintf(DraftCommentDefaultFmt, def)
}

// choiceComments lists the choices of an option as ready-to-uncomment lines,
// with the previews aligned on one column.
func choiceComments(o DraftOption) string {
	id := yamlScalar(o.ID)
	names := make([]string, len(o.Choices))
	width := 0
	for i, c := range o.Choices {
		names[i] = yamlScalar(c.Name)
		width = max(width, utf8.RuneCountInString(names[i]))
	}

	lines := []string{DraftCommentChoicesIntro}
	for i, c := range o.Choices {
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(names[i])+DraftPreviewPadding)
		lines = append(lines, fmt.Sprintf(DraftCommentChoiceFmt, id, names[i], pad, preview(c.Literal)))
	}
	return strings.Join(lines, "\n")
}

// yamlScalar renders s the way the YAML encoder writes a plain string, quoting
// it when it would otherwise read back as null, a bool or a number.
func yamlScalar(s string) string {
	out, err := yaml.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	rendered := strings.TrimSuffix(string(out), "\n")
	if strings.Contains(rendered, "\n") {
		return strconv.Quote(s)
	}
	return rendered
}

func preview(literal string) string {
	runes := []rune(literal)
	if len(runes) <= DraftPreviewMaxLen {
		return literal
	}
	return string(runes[:DraftPreviewMaxLen-len(DraftPreviewSuffix)]) + DraftPreviewSuffix
}
