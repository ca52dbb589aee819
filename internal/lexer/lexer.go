package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lumen-lang/lumen/internal/token"
)

// operator characters that may form a symbolic operator run
const opChars = "+-/*=.<>:&|^?%!"

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// Tokens lexes the entire input. The final token is always EOF.
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.column

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Lexeme: "", Line: line, Column: col}
	case l.ch == '(':
		l.readChar()
		return token.Token{Type: token.LPAREN, Lexeme: "(", Line: line, Column: col}
	case l.ch == ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Lexeme: ")", Line: line, Column: col}
	case l.ch == '{':
		l.readChar()
		return token.Token{Type: token.LBRACE, Lexeme: "{", Line: line, Column: col}
	case l.ch == '}':
		l.readChar()
		return token.Token{Type: token.RBRACE, Lexeme: "}", Line: line, Column: col}
	case l.ch == '[':
		l.readChar()
		return token.Token{Type: token.LBRACKET, Lexeme: "[", Line: line, Column: col}
	case l.ch == ']':
		l.readChar()
		return token.Token{Type: token.RBRACKET, Lexeme: "]", Line: line, Column: col}
	case l.ch == ',':
		l.readChar()
		return token.Token{Type: token.COMMA, Lexeme: ",", Line: line, Column: col}
	case l.ch == '\\':
		l.readChar()
		return token.Token{Type: token.BACKSLASH, Lexeme: "\\", Line: line, Column: col}
	case l.ch == '_' && !isIdentChar(l.peekChar()):
		l.readChar()
		return token.Token{Type: token.UNDERSCORE, Lexeme: "_", Line: line, Column: col}
	case l.ch == '"':
		return l.readString(line, col)
	case l.ch == '\'':
		return l.readCharLiteral(line, col)
	case unicode.IsDigit(l.ch):
		return l.readNumber(line, col)
	case unicode.IsLetter(l.ch) || l.ch == '_':
		return l.readIdentifier(line, col)
	case strings.ContainsRune(opChars, l.ch):
		return l.readOperator(line, col)
	}

	lex := string(l.ch)
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: lex, Line: line, Column: col}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '{' && l.peekChar() == '-':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a {- -} comment, honoring nesting.
func (l *Lexer) skipBlockComment() {
	depth := 0
	for l.ch != 0 {
		if l.ch == '{' && l.peekChar() == '-' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '-' && l.peekChar() == '}' {
			depth--
			l.readChar()
			l.readChar()
			if depth == 0 {
				return
			}
			continue
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	start := l.position
	upper := unicode.IsUpper(l.ch)
	for isIdentChar(l.ch) {
		l.readChar()
	}
	lex := l.input[start:l.position]
	if upper {
		return token.Token{Type: token.UPPER_IDENT, Lexeme: lex, Line: line, Column: col}
	}
	return token.Token{Type: token.LookupIdent(lex), Lexeme: lex, Line: line, Column: col}
}

func isIdentChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.position
	typ := token.INT
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	// A dot continues a float only when followed by a digit; otherwise it
	// is left for the parser (e.g. qualified access after a paren group).
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		typ = token.FLOAT
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		typ = token.FLOAT
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: typ, Lexeme: l.input[start:l.position], Line: line, Column: col}
}

func (l *Lexer) readString(line, col int) token.Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Lexeme: sb.String(), Line: line, Column: col}
		}
		if l.ch == '\\' {
			l.readChar()
			sb.WriteRune(unescape(l.ch))
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.STRING, Lexeme: sb.String(), Line: line, Column: col}
}

func (l *Lexer) readCharLiteral(line, col int) token.Token {
	l.readChar() // consume opening quote
	var r rune
	if l.ch == '\\' {
		l.readChar()
		r = unescape(l.ch)
	} else {
		r = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return token.Token{Type: token.ILLEGAL, Lexeme: string(r), Line: line, Column: col}
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.CHAR, Lexeme: string(r), Line: line, Column: col}
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

func (l *Lexer) readOperator(line, col int) token.Token {
	start := l.position
	for strings.ContainsRune(opChars, l.ch) {
		l.readChar()
	}
	lex := l.input[start:l.position]

	switch lex {
	case "=":
		return token.Token{Type: token.EQUALS, Lexeme: lex, Line: line, Column: col}
	case "->":
		return token.Token{Type: token.ARROW, Lexeme: lex, Line: line, Column: col}
	case ":":
		return token.Token{Type: token.COLON, Lexeme: lex, Line: line, Column: col}
	case "|":
		return token.Token{Type: token.PIPE, Lexeme: lex, Line: line, Column: col}
	case ".":
		return token.Token{Type: token.DOT, Lexeme: lex, Line: line, Column: col}
	case "..":
		return token.Token{Type: token.DOTDOT, Lexeme: lex, Line: line, Column: col}
	}
	return token.Token{Type: token.OPERATOR, Lexeme: lex, Line: line, Column: col}
}
