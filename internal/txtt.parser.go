package internal

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Parser turns template source into a TemplateNode by recursive descent.
// Lexing and parsing share one cursor because the grammar is context
// sensitive: a ':' only separates a default inside a key or option.
type Parser struct {
	scanner *Scanner
	logger  *zap.Logger
}

// NewParser creates a parser for the given source
func NewParser(source string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldSource, len(source)))
	return &Parser{
		scanner: NewScanner(source),
		logger:  logger,
	}
}

// Parse consumes the whole source. Errors are terminal; no partial template is returned.
func (p *Parser) Parse() (*TemplateNode, error) {
	p.logger.Debug(LogMsgParserStart)

	node := &TemplateNode{Locale: DefaultLocale}
	if err := p.parseLocale(node); err != nil {
		return nil, err
	}

	for !p.scanner.IsAtEnd() {
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		node.Body = append(node.Body, el)
	}

	p.logger.Debug(LogMsgParserEnd,
		zap.Int(LogFieldElements, len(node.Body)),
		zap.String(LogFieldLocale, node.Locale),
	)
	return node, nil
}

// parseLocale handles the optional header `locale <ws>* : <ws>* <tag> \n`.
// The header is only recognised when the keyword is followed by a colon;
// anything else leaves the cursor untouched so the input parses as text.
func (p *Parser) parseLocale(node *TemplateNode) error {
	if !p.scanner.MatchStr(LocaleKeyword) {
		p.logger.Debug(LogMsgLocaleDefault)
		return nil
	}

	start := p.scanner.Position()
	p.scanner.AdvanceN(len(LocaleKeyword))
	p.scanner.TakeWhile(unicode.IsSpace)
	if p.scanner.IsAtEnd() || p.scanner.Peek() != CharDefaultSep {
		p.scanner.Reset(start)
		p.logger.Debug(LogMsgLocaleDefault)
		return nil
	}
	p.scanner.Advance() // consume ':'
	p.scanner.TakeWhile(isInlineSpace)

	litPos := p.scanner.Position()
	literal := p.scanner.TakeWhile(func(r rune) bool { return r != CharNewline })
	if p.scanner.IsAtEnd() {
		return newParseError(ParseErrorInvalidLocale, ErrMsgMissingLocaleEnd, p.scanner.Position(), literal)
	}
	literal = strings.TrimRight(literal, " \t\r")
	if !IsLocale(literal) {
		return newParseError(ParseErrorInvalidLocale, ErrMsgInvalidLocale, litPos, literal)
	}
	p.scanner.Advance() // consume '\n'

	node.Locale = literal
	node.LocaleExplicit = true
	p.logger.Debug(LogMsgLocaleFound, zap.String(LogFieldLocale, literal))
	return nil
}

// parseElement dispatches on the current rune. Defaults recurse through here,
// so a default may itself be any element kind.
func (p *Parser) parseElement() (Element, error) {
	switch p.scanner.Peek() {
	case CharKeyOpen:
		return p.parseKey()
	case CharDollar:
		if p.scanner.PeekNext() == CharKeyOpen {
			return p.parseOption()
		}
		return p.parseConstant()
	case CharElementClose:
		return nil, newParseError(ParseErrorUnexpectedChar, ErrMsgStrayClose, p.scanner.Position(), string(CharElementClose))
	default:
		return p.parseText(), nil
	}
}

// parseText consumes a run of non-reserved scalars
func (p *Parser) parseText() *TextElement {
	pos := p.scanner.Position()
	content := p.scanner.TakeWhile(func(r rune) bool { return !isReserved(r) })
	return NewTextElement(content, pos)
}

// parseKey parses `{ident}` or `{ident:default}`
func (p *Parser) parseKey() (Element, error) {
	pos := p.scanner.Position()
	p.scanner.Advance() // consume '{'

	id, def, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return NewKeyElement(id, def, pos), nil
}

// parseOption parses `${ident}` or `${ident:default}`
func (p *Parser) parseOption() (Element, error) {
	pos := p.scanner.Position()
	p.scanner.AdvanceN(2) // consume '$' and '{'

	id, def, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return NewOptionElement(id, def, pos), nil
}

// parseConstant parses `$ident`; the identifier ends at the first
// non-identifier scalar, there is no closing delimiter.
func (p *Parser) parseConstant() (Element, error) {
	pos := p.scanner.Position()
	p.scanner.Advance() // consume '$'

	id := p.scanner.TakeWhile(IsIdentifierRune)
	if id == "" {
		found := string(CharDollar)
		if !p.scanner.IsAtEnd() {
			found += string(p.scanner.Peek())
		}
		return nil, newParseError(ParseErrorUnexpectedChar, ErrMsgUnexpectedChar, pos, found)
	}
	return NewConstantElement(id, pos), nil
}

// parseBody parses the shared inner grammar of keys and options:
// ident ( "}" | ":" element "}" )
func (p *Parser) parseBody() (string, Element, error) {
	idPos := p.scanner.Position()
	id := p.scanner.TakeWhile(IsIdentifierRune)
	if p.scanner.IsAtEnd() {
		return "", nil, newParseError(ParseErrorUnterminatedElement, ErrMsgUnterminatedElement, p.scanner.Position(), "")
	}

	next := p.scanner.Peek()
	if id == "" || (next != CharElementClose && next != CharDefaultSep) {
		return "", nil, newParseError(ParseErrorInvalidIdentifier, ErrMsgInvalidIdentifier, idPos, id+string(next))
	}

	if next == CharElementClose {
		p.scanner.Advance()
		return id, nil, nil
	}

	p.scanner.Advance() // consume ':'
	if p.scanner.IsAtEnd() {
		return "", nil, newParseError(ParseErrorUnterminatedElement, ErrMsgUnterminatedElement, p.scanner.Position(), "")
	}
	if p.scanner.Peek() == CharElementClose {
		return "", nil, newParseError(ParseErrorUnexpectedChar, ErrMsgEmptyDefault, p.scanner.Position(), string(CharElementClose))
	}

	def, err := p.parseElement()
	if err != nil {
		return "", nil, err
	}

	if p.scanner.IsAtEnd() {
		return "", nil, newParseError(ParseErrorUnterminatedElement, ErrMsgUnterminatedElement, p.scanner.Position(), "")
	}
	if p.scanner.Peek() != CharElementClose {
		return "", nil, newParseError(ParseErrorUnexpectedChar, ErrMsgExpectedClose, p.scanner.Position(), string(p.scanner.Peek()))
	}
	p.scanner.Advance() // consume '}'
	return id, def, nil
}

func isReserved(r rune) bool {
	return r == CharKeyOpen || r == CharElementClose || r == CharDollar
}

func isInlineSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
