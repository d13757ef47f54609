// Package lexer scans a regex source string into a stream of classified
// tokens: it handles escape sequences and a `"..."` quote mode that
// disables metacharacters.
//
// Semantics are grounded directly in original_source/plainc/main.c's
// advance()/esc()/regex_token_from_char, which this port follows
// byte-for-byte (treating out-of-bounds reads as the NUL terminator the C
// version relies on, via the at() helper below).
package lexer

// Lexer scans regex source text into tokens.
//
// A Lexer starts unprimed: Kind() is EOI and Lexeme() is 0 until the first
// call to Advance. This mirrors the reference grammar's `machine` production,
// which calls advance() once before consuming any rule.
type Lexer struct {
	src []byte
	pos int

	tok         Kind
	lexeme      byte
	inQuote     bool
	quoteOffset int // offset of the '"' that opened the current quote run
	start       int // offset of the current token's first byte
}

// New creates a Lexer over src. Call Advance to read the first token.
func New(src string) *Lexer {
	return &Lexer{src: []byte(src)}
}

// Kind returns the most recently scanned token's kind.
func (l *Lexer) Kind() Kind {
	return l.tok
}

// Lexeme returns the most recently scanned token's character. For EOI this
// is 0.
func (l *Lexer) Lexeme() byte {
	return l.lexeme
}

// Offset returns the byte offset of the token currently at the lookahead,
// for use in diagnostics.
func (l *Lexer) Offset() int {
	return l.start
}

// at returns the byte at index i, or 0 if i is outside the source — the
// same sentinel a NUL-terminated C string yields past its end, which the
// reference lexer relies on at every EOI check.
func (l *Lexer) at(i int) byte {
	if i < 0 || i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

// esc reads one character honoring a leading backslash escape:
// \t, \n, \r map to their control codes; any other escaped character
// passes through literally. It does not itself advance past the escaped
// character's trailing byte — the caller does that. Mirrors the reference
// esc() exactly.
func (l *Lexer) esc() byte {
	if l.at(l.pos) == '\\' {
		l.pos++
		switch l.at(l.pos) {
		case 't':
			return '\t'
		case 'n':
			return '\n'
		case 'r':
			return '\r'
		default:
			return l.at(l.pos)
		}
	}
	return l.at(l.pos)
}

// Advance reads the next token into Kind()/Lexeme(). It is idempotent at
// EOI: once the source is exhausted, further calls keep returning EOI (with
// nil error, unless the source ended inside an unterminated quote, in which
// case every subsequent call keeps returning the same *Error).
func (l *Lexer) Advance() error {
	l.start = l.pos
	if l.at(l.pos) == 0 {
		l.tok, l.lexeme = EOI, 0
		if l.inQuote {
			return &Error{Offset: l.quoteOffset, Err: ErrUnterminatedQuote}
		}
		return nil
	}

	if l.at(l.pos) == '"' {
		l.inQuote = !l.inQuote
		if l.inQuote {
			l.quoteOffset = l.pos
		}
		l.pos++
		l.start = l.pos
		if l.at(l.pos) == 0 {
			l.tok, l.lexeme = EOI, 0
			if l.inQuote {
				return &Error{Offset: l.quoteOffset, Err: ErrUnterminatedQuote}
			}
			return nil
		}
	}

	sawEsc := l.at(l.pos) == '\\'
	var lexeme byte
	if !l.inQuote {
		lexeme = l.esc()
		l.pos++
	} else if sawEsc && l.at(l.pos+1) == '"' {
		l.pos += 2
		lexeme = '"'
	} else {
		lexeme = l.at(l.pos)
		l.pos++
	}

	l.lexeme = lexeme
	if l.inQuote || sawEsc {
		l.tok = Literal
	} else {
		l.tok = kindFromChar(lexeme)
	}
	return nil
}
