package internal

import (
	"fmt"
	"strings"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number, counted in runes
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Element is the interface all template elements implement.
// Defaults are direct children, so an element tree never contains cycles.
type Element interface {
	// Kind returns the element variant
	Kind() ElementKind
	// Pos returns the source position of this element
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// TemplateNode is the parsed form of a template source
type TemplateNode struct {
	Locale         string // Locale tag as written, or DefaultLocale
	LocaleExplicit bool   // True when a locale header was present
	Body           []Element
}

// String returns a string representation of the template node
func (n *TemplateNode) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("TemplateNode{locale=%s\n", n.Locale))
	for i, el := range n.Body {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, el.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// TextElement is a run of literal text
type TextElement struct {
	pos     Position
	Content string
}

// NewTextElement creates a text element
func NewTextElement(content string, pos Position) *TextElement {
	return &TextElement{pos: pos, Content: content}
}

// Kind returns ElementKindText
func (e *TextElement) Kind() ElementKind { return ElementKindText }

// Pos returns the source position
func (e *TextElement) Pos() Position { return e.pos }

// String returns a string representation
func (e *TextElement) String() string {
	content := e.Content
	if runes := []rune(content); len(runes) > MaxStringDisplayLength {
		content = string(runes[:TruncatedStringLength]) + TruncationSuffix
	}
	return fmt.Sprintf("Text{%q @ %s}", content, e.pos)
}

// KeyElement is a value supplied per compilation: {id} or {id:default}
type KeyElement struct {
	pos     Position
	ID      string
	Default Element // nil when no default was given
}

// NewKeyElement creates a key element
func NewKeyElement(id string, def Element, pos Position) *KeyElement {
	return &KeyElement{pos: pos, ID: id, Default: def}
}

// Kind returns ElementKindKey
func (e *KeyElement) Kind() ElementKind { return ElementKindKey }

// Pos returns the source position
func (e *KeyElement) Pos() Position { return e.pos }

// String returns a string representation
func (e *KeyElement) String() string {
	return fmt.Sprintf("Key{%s%s @ %s}", e.ID, defaultString(e.Default), e.pos)
}

// OptionElement selects a declared choice: ${id} or ${id:default}
type OptionElement struct {
	pos     Position
	ID      string
	Default Element
}

// NewOptionElement creates an option element
func NewOptionElement(id string, def Element, pos Position) *OptionElement {
	return &OptionElement{pos: pos, ID: id, Default: def}
}

// Kind returns ElementKindOption
func (e *OptionElement) Kind() ElementKind { return ElementKindOption }

// Pos returns the source position
func (e *OptionElement) Pos() Position { return e.pos }

// String returns a string representation
func (e *OptionElement) String() string {
	return fmt.Sprintf("Option{%s%s @ %s}", e.ID, defaultString(e.Default), e.pos)
}

// ConstantElement is a fixed value from the content state: $id
type ConstantElement struct {
	pos Position
	ID  string
}

// NewConstantElement creates a constant element
func NewConstantElement(id string, pos Position) *ConstantElement {
	return &ConstantElement{pos: pos, ID: id}
}

// Kind returns ElementKindConstant
func (e *ConstantElement) Kind() ElementKind { return ElementKindConstant }

// Pos returns the source position
func (e *ConstantElement) Pos() Position { return e.pos }

// String returns a string representation
func (e *ConstantElement) String() string {
	return fmt.Sprintf("Constant{%s @ %s}", e.ID, e.pos)
}

func defaultString(def Element) string {
	if def == nil {
		return ""
	}
	return ", default=" + def.String()
}

// Walk visits every element of body in document order, descending into
// defaults before moving on to the next sibling. Returning false from fn
// stops the walk.
func Walk(body []Element, fn func(el Element, depth int) bool) {
	for _, el := range body {
		if !walkElement(el, 0, fn) {
			return
		}
	}
}

func walkElement(el Element, depth int, fn func(Element, int) bool) bool {
	if !fn(el, depth) {
		return false
	}
	switch e := el.(type) {
	case *KeyElement:
		if e.Default != nil {
			return walkElement(e.Default, depth+1, fn)
		}
	case *OptionElement:
		if e.Default != nil {
			return walkElement(e.Default, depth+1, fn)
		}
	}
	return true
}
