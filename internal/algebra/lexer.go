package algebra

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp // one of + - * / ^
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// normalize maps hand-entered math notation onto the plain ASCII grammar:
// fullwidth punctuation, unicode operators, superscript squares/cubes and
// Python-style ** all collapse to their canonical forms, and whitespace is
// stripped entirely.
func normalize(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case unicode.IsSpace(r):
			// dropped
		case r == '×' || r == '·' || r == '＊':
			b.WriteByte('*')
		case r == '÷' || r == '／':
			b.WriteByte('/')
		case r == '−' || r == '－':
			b.WriteByte('-')
		case r == '＋':
			b.WriteByte('+')
		case r == '＾':
			b.WriteByte('^')
		case r == '（':
			b.WriteByte('(')
		case r == '）':
			b.WriteByte(')')
		case r == '²':
			b.WriteString("^2")
		case r == '³':
			b.WriteString("^3")
		case r >= '０' && r <= '９':
			b.WriteByte(byte(r - '０' + '0'))
		default:
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), "**", "^")
}

// lex tokenizes a normalized expression. Offsets refer to the normalized
// string.
func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9' || r == '.':
			start := i
			seenDot := false
			for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9' || runes[i] == '.' && !seenDot) {
				if runes[i] == '.' {
					seenDot = true
				}
				i++
			}
			text := string(runes[start:i])
			if text == "." {
				return nil, &ParseError{Input: src, Pos: start, Msg: "bare decimal point"}
			}
			if strings.HasPrefix(text, ".") {
				text = "0" + text
			}
			toks = append(toks, token{kind: tokNum, text: text, pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, &ParseError{Input: src, Pos: i, Msg: "unexpected character " + string(r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}
