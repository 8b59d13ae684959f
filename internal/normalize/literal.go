package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var errNotLiteral = errors.New("not a list literal")

// parseLiteral parses the subset of Python literal syntax that list cells
// are written in: a list or tuple of quoted strings, numbers, booleans and
// None, or a single quoted string. None items are dropped.
func parseLiteral(s string) ([]string, error) {
	p := &literalParser{src: s}
	p.skipSpace()

	var items []string
	switch p.peek() {
	case '[', '(':
		list, err := p.list()
		if err != nil {
			return nil, err
		}
		items = list
	default:
		item, isNone, err := p.scalar()
		if err != nil {
			return nil, err
		}
		if !isNone {
			items = []string{item}
		}
	}

	p.skipSpace()
	if !p.done() {
		return nil, fmt.Errorf("%w: trailing input at %d", errNotLiteral, p.pos)
	}
	return items, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) done() bool { return p.pos >= len(p.src) }

func (p *literalParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) skipSpace() {
	for !p.done() && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *literalParser) list() ([]string, error) {
	open := p.src[p.pos]
	closing := byte(']')
	if open == '(' {
		closing = ')'
	}
	p.pos++

	items := []string{}
	for {
		p.skipSpace()
		if p.peek() == closing {
			p.pos++
			return items, nil
		}

		item, isNone, err := p.scalar()
		if err != nil {
			return nil, err
		}
		if !isNone {
			items = append(items, item)
		}

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return items, nil
		default:
			return nil, fmt.Errorf("%w: expected ',' at %d", errNotLiteral, p.pos)
		}
	}
}

// scalar parses a string, number, boolean or None.
func (p *literalParser) scalar() (string, bool, error) {
	switch c := p.peek(); {
	case c == '\'' || c == '"':
		s, err := p.quoted()
		return s, false, err
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	}

	start := p.pos
	for !p.done() && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	switch word := p.src[start:p.pos]; word {
	case "None":
		return "", true, nil
	case "True", "False":
		return word, false, nil
	}
	return "", false, fmt.Errorf("%w: unexpected token at %d", errNotLiteral, start)
}

func (p *literalParser) number() (string, bool, error) {
	start := p.pos
	for !p.done() && strings.IndexByte("+-.0123456789eE_", p.src[p.pos]) >= 0 {
		p.pos++
	}
	text := p.src[start:p.pos]
	if _, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64); err != nil {
		return "", false, fmt.Errorf("%w: bad number %q", errNotLiteral, text)
	}
	return text, false, nil
}

// quoted parses a single- or double-quoted string with backslash escapes.
func (p *literalParser) quoted() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var sb strings.Builder
	for !p.done() {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if err := p.escape(&sb); err != nil {
				return "", err
			}
		case c == '\n':
			return "", fmt.Errorf("%w: newline in string", errNotLiteral)
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("%w: unterminated string", errNotLiteral)
}

func (p *literalParser) escape(sb *strings.Builder) error {
	p.pos++ // backslash
	if p.done() {
		return fmt.Errorf("%w: dangling escape", errNotLiteral)
	}
	c := p.src[p.pos]
	p.pos++

	switch c {
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'x', 'u':
		width := 2
		if c == 'u' {
			width = 4
		}
		if p.pos+width > len(p.src) {
			return fmt.Errorf("%w: short \\%c escape", errNotLiteral, c)
		}
		code, err := strconv.ParseUint(p.src[p.pos:p.pos+width], 16, 32)
		if err != nil {
			return fmt.Errorf("%w: bad \\%c escape", errNotLiteral, c)
		}
		p.pos += width
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], rune(code))
		sb.Write(buf[:n])
	default:
		// Unknown escapes are kept verbatim, as Python does.
		sb.WriteByte('\\')
		sb.WriteByte(c)
	}
	return nil
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
