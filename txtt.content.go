package txtt

import (
	"os"
	"sort"

	"github.com/itsatony/go-txtt/internal"
	"gopkg.in/yaml.v3"
)

// Choices maps choice names to the literal each choice substitutes.
type Choices map[string]string

// ContentState is the semi-permanent store of constants and option choice sets.
// The resolver only reads it; one value may serve any number of concurrent
// resolutions as long as nobody mutates it meanwhile.
type ContentState struct {
	Constants map[string]string  `yaml:"constants,omitempty" json:"constants,omitempty"`
	Options   map[string]Choices `yaml:"options,omitempty" json:"options,omitempty"`
}

// VolatileContent is the per-compilation store of key literals and option choices.
type VolatileContent struct {
	Keys    map[string]string `yaml:"keys,omitempty" json:"keys,omitempty"`
	Choices map[string]string `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// NewContentState creates an empty content state.
func NewContentState() *ContentState {
	return &ContentState{
		Constants: make(map[string]string),
		Options:   make(map[string]Choices),
	}
}

// NewVolatileContent creates empty volatile content.
func NewVolatileContent() *VolatileContent {
	return &VolatileContent{
		Keys:    make(map[string]string),
		Choices: make(map[string]string),
	}
}

// MapConstant sets the literal of a constant, replacing any previous one.
func (s *ContentState) MapConstant(id, literal string) *ContentState {
	if s.Constants == nil {
		s.Constants = make(map[string]string)
	}
	s.Constants[id] = literal
	return s
}

// MapOption adds a choice to an option, declaring the option if needed.
func (s *ContentState) MapOption(id, choice, literal string) *ContentState {
	if s.Options == nil {
		s.Options = make(map[string]Choices)
	}
	choices, ok := s.Options[id]
	if !ok {
		choices = make(Choices)
		s.Options[id] = choices
	}
	choices[choice] = literal
	return s
}

// Constant returns the literal of a constant.
func (s *ContentState) Constant(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.Constants[id]
	return v, ok
}

// Option returns the declared choices of an option.
func (s *ContentState) Option(id string) (Choices, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.Options[id]
	return c, ok
}

// ConstantIDs returns the defined constant identifiers in sorted order.
func (s *ContentState) ConstantIDs() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.Constants)
}

// OptionIDs returns the declared option identifiers in sorted order.
func (s *ContentState) OptionIDs() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.Options)
}

// Validate checks identifiers and choice sets.
func (s *ContentState) Validate() error {
	if s == nil {
		return nil
	}
	for _, id := range sortedKeys(s.Constants) {
		if !internal.IsIdentifier(id) {
			return NewContentIdentifierError(FieldConstants, id)
		}
	}
	for _, id := range sortedKeys(s.Options) {
		if !internal.IsIdentifier(id) {
			return NewContentIdentifierError(FieldOptions, id)
		}
		choices := s.Options[id]
		if len(choices) == 0 {
			return NewContentError(ErrMsgEmptyChoiceSet, FieldOptions, id)
		}
		if _, ok := choices[""]; ok {
			return NewContentError(ErrMsgEmptyChoiceName, FieldOptions, id)
		}
	}
	return nil
}

// YAML encodes the content state in its document form.
func (s *ContentState) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, NewContentDecodeError(ErrMsgEncodeContentError, "", err)
	}
	return data, nil
}

// Clone returns a deep copy.
func (s *ContentState) Clone() *ContentState {
	if s == nil {
		return nil
	}
	out := NewContentState()
	for id, lit := range s.Constants {
		out.Constants[id] = lit
	}
	for id, choices := range s.Options {
		c := make(Choices, len(choices))
		for name, lit := range choices {
			c[name] = lit
		}
		out.Options[id] = c
	}
	return out
}

// ChoiceNames returns the choice names in sorted order.
func (c Choices) ChoiceNames() []string {
	return sortedKeys(c)
}

// MapKey sets the literal of a key, replacing any previous one.
func (v *VolatileContent) MapKey(id, literal string) *VolatileContent {
	if v.Keys == nil {
		v.Keys = make(map[string]string)
	}
	v.Keys[id] = literal
	return v
}

// MapChoice selects a choice for an option, replacing any previous selection.
func (v *VolatileContent) MapChoice(id, choice string) *VolatileContent {
	if v.Choices == nil {
		v.Choices = make(map[string]string)
	}
	v.Choices[id] = choice
	return v
}

// Key returns the literal supplied for a key.
func (v *VolatileContent) Key(id string) (string, bool) {
	if v == nil {
		return "", false
	}
	lit, ok := v.Keys[id]
	return lit, ok
}

// Choice returns the choice name selected for an option.
func (v *VolatileContent) Choice(id string) (string, bool) {
	if v == nil {
		return "", false
	}
	c, ok := v.Choices[id]
	return c, ok
}

// KeyIDs returns the supplied key identifiers in sorted order.
func (v *VolatileContent) KeyIDs() []string {
	if v == nil {
		return nil
	}
	return sortedKeys(v.Keys)
}

// ChoiceIDs returns the option identifiers that have a choice, in sorted order.
func (v *VolatileContent) ChoiceIDs() []string {
	if v == nil {
		return nil
	}
	return sortedKeys(v.Choices)
}

// Validate checks identifiers and choice names.
func (v *VolatileContent) Validate() error {
	if v == nil {
		return nil
	}
	for _, id := range sortedKeys(v.Keys) {
		if !internal.IsIdentifier(id) {
			return NewContentIdentifierError(FieldKeys, id)
		}
	}
	for _, id := range sortedKeys(v.Choices) {
		if !internal.IsIdentifier(id) {
			return NewContentIdentifierError(FieldChoices, id)
		}
		if v.Choices[id] == "" {
			return NewContentError(ErrMsgEmptyChoiceName, FieldChoices, id)
		}
	}
	return nil
}

// volatileDocument mirrors VolatileContent with nullable values, so that
// untouched draft placeholders decode as "not supplied".
type volatileDocument struct {
	Keys    map[string]*string `yaml:"keys"`
	Choices map[string]*string `yaml:"choices"`
}

// ParseContentState decodes and validates a content state document.
func ParseContentState(data []byte) (*ContentState, error) {
	state := NewContentState()
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, NewContentDecodeError(ErrMsgInvalidContent, "", err)
	}
	if err := rejectNullKeys(data); err != nil {
		return nil, err
	}
	if state.Constants == nil {
		state.Constants = make(map[string]string)
	}
	if state.Options == nil {
		state.Options = make(map[string]Choices)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

// LoadContentStateFile reads and decodes a content state document.
func LoadContentStateFile(path string) (*ContentState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewContentDecodeError(ErrMsgReadContentFailed, path, err)
	}
	return ParseContentState(data)
}

// ParseVolatileContent decodes and validates a volatile content document.
// Entries with null values are treated as absent.
func ParseVolatileContent(data []byte) (*VolatileContent, error) {
	var doc volatileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewContentDecodeError(ErrMsgInvalidContent, "", err)
	}
	if err := rejectNullKeys(data); err != nil {
		return nil, err
	}

	content := NewVolatileContent()
	for id, lit := range doc.Keys {
		if lit != nil {
			content.Keys[id] = *lit
		}
	}
	for id, choice := range doc.Choices {
		if choice != nil {
			content.Choices[id] = *choice
		}
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}

// LoadVolatileContentFile reads and decodes a volatile content document.
func LoadVolatileContentFile(path string) (*VolatileContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewContentDecodeError(ErrMsgReadContentFailed, path, err)
	}
	return ParseVolatileContent(data)
}

// rejectNullKeys fails on a section entry whose key is YAML null, such as an
// unquoted `null` or `~`. Decoding into a string-keyed map skips those
// entries without an error.
func rejectNullKeys(data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return NewContentDecodeError(ErrMsgInvalidContent, "", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		section, body := doc.Content[i], doc.Content[i+1]
		if key := findNullKey(body); key != nil {
			return NewContentError(ErrMsgNullKey, section.Value, key.Value)
		}
	}
	return nil
}

func findNullKey(n *yaml.Node) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].ShortTag() == yamlNullTag {
			return n.Content[i]
		}
		if key := findNullKey(n.Content[i+1]); key != nil {
			return key
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
