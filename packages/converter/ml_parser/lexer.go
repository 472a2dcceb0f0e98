package ml_parser

import (
	"fmt"
	"strings"

	"xmc-go/packages/converter/util"
)

// TokenizeResult represents the result of tokenization
type TokenizeResult struct {
	Tokens []Token
	Errors []*util.ParseError
}

// NewTokenizeResult creates a new TokenizeResult
func NewTokenizeResult(tokens []Token, errors []*util.ParseError) *TokenizeResult {
	return &TokenizeResult{
		Tokens: tokens,
		Errors: errors,
	}
}

// Tokenize tokenizes XML source
func Tokenize(source, url string) *TokenizeResult {
	file := util.NewParseSourceFile(source, url)
	tokenizer := NewTokenizer(file)
	tokenizer.Tokenize()
	return NewTokenizeResult(tokenizer.tokens, tokenizer.errors)
}

// CursorState represents the state of a character cursor
type CursorState struct {
	Peek   int
	Offset int
	Line   int
	Column int
}

// CharacterCursor moves through the input text tracking offset, line and
// column as it goes
type CharacterCursor struct {
	state CursorState
	file  *util.ParseSourceFile
	input string
	end   int
}

// NewCharacterCursor creates a new CharacterCursor at the start of file
func NewCharacterCursor(file *util.ParseSourceFile) *CharacterCursor {
	return &CharacterCursor{
		file:  file,
		input: file.Content,
		end:   len(file.Content),
		state: CursorState{
			Peek:   -1,
			Offset: 0,
			Line:   0,
			Column: 0,
		},
	}
}

// Clone creates a copy of the cursor
func (c *CharacterCursor) Clone() *CharacterCursor {
	return &CharacterCursor{
		file:  c.file,
		input: c.input,
		end:   c.end,
		state: c.state,
	}
}

// Init initializes the cursor peek value
func (c *CharacterCursor) Init() {
	c.state.Peek = c.charAt(c.state.Offset)
}

// Peek returns the current character
func (c *CharacterCursor) Peek() int {
	return c.state.Peek
}

// Advance advances the cursor by one character
func (c *CharacterCursor) Advance() {
	if c.state.Offset >= c.end {
		panic(&CursorError{Msg: "Unexpected character \"EOF\"", Cursor: c})
	}
	if c.state.Peek == util.CharLF {
		c.state.Line++
		c.state.Column = 0
	} else if !util.IsNewLine(c.state.Peek) {
		c.state.Column++
	}
	c.state.Offset++
	c.state.Peek = c.charAt(c.state.Offset)
}

// GetSpan returns a span from start to the current position
func (c *CharacterCursor) GetSpan(start *CharacterCursor) *util.ParseSourceSpan {
	if start == nil {
		start = c
	}
	startLocation := util.NewParseLocation(start.file, start.state.Offset, start.state.Line, start.state.Column)
	endLocation := util.NewParseLocation(c.file, c.state.Offset, c.state.Line, c.state.Column)
	return util.NewParseSourceSpan(startLocation, endLocation, startLocation, nil)
}

// GetChars returns the characters from start to the current position
func (c *CharacterCursor) GetChars(start *CharacterCursor) string {
	return c.input[start.state.Offset:c.state.Offset]
}

// CharsLeft returns the number of characters left
func (c *CharacterCursor) CharsLeft() int {
	return c.end - c.state.Offset
}

// Diff returns the offset difference between this cursor and another
func (c *CharacterCursor) Diff(other *CharacterCursor) int {
	return c.state.Offset - other.state.Offset
}

func (c *CharacterCursor) charAt(pos int) int {
	if pos >= len(c.input) {
		return util.CharEOF
	}
	return int(c.input[pos])
}

// CursorError represents a cursor error
type CursorError struct {
	Msg    string
	Cursor *CharacterCursor
}

// Error implements the error interface
func (c *CursorError) Error() string {
	return c.Msg
}

// Tokenizer tokenizes XML source
type Tokenizer struct {
	cursor            *CharacterCursor
	currentTokenStart *CharacterCursor
	currentTokenType  TokenType
	tokens            []Token
	errors            []*util.ParseError
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(file *util.ParseSourceFile) *Tokenizer {
	cursor := NewCharacterCursor(file)
	cursor.Init()
	return &Tokenizer{
		cursor:           cursor,
		currentTokenType: -1,
		tokens:           []Token{},
		errors:           []*util.ParseError{},
	}
}

// Tokenize tokenizes the source
func (t *Tokenizer) Tokenize() {
	for t.cursor.Peek() != util.CharEOF {
		start := t.cursor.Clone()
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.handleError(r)
					// Skip past the offending character so tokenization
					// can make progress on the remaining input.
					if t.cursor.Peek() != util.CharEOF {
						t.cursor.Advance()
					}
				}
			}()
			if t._attemptCharCode(util.CharLT) {
				if t._attemptCharCode(util.CharBANG) {
					if t._attemptCharCode(util.CharLBRACKET) {
						t._consumeCdata(start)
					} else if t._attemptCharCode(util.CharMINUS) {
						t._consumeComment(start)
					} else {
						t._consumeDocType(start)
					}
				} else if t._attemptCharCode(util.CharSLASH) {
					t._consumeTagClose(start)
				} else if t._attemptCharCode(util.CharQUESTION) {
					t._consumeProcessingInstruction(start)
				} else {
					t._consumeTagOpen(start)
				}
			} else {
				t._consumeText()
			}
		}()
	}

	t._beginToken(TokenTypeEOF, t.cursor.Clone())
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) _consumeComment(start *CharacterCursor) {
	t._requireCharCode(util.CharMINUS)
	t._beginToken(TokenTypeCOMMENT_START, start)
	t._endToken([]string{}, nil)
	textStart := t.cursor.Clone()
	for !t._peekStr("-->") {
		if t.cursor.Peek() == util.CharEOF {
			panic(&CursorError{Msg: "Unterminated comment", Cursor: start})
		}
		t.cursor.Advance()
	}
	t._beginToken(TokenTypeTEXT, textStart)
	t._endToken([]string{t.cursor.GetChars(textStart)}, nil)
	commentEnd := t.cursor.Clone()
	t._requireStr("-->")
	t._beginToken(TokenTypeCOMMENT_END, commentEnd)
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) _consumeCdata(start *CharacterCursor) {
	t._requireStr("CDATA[")
	t._beginToken(TokenTypeCDATA_START, start)
	t._endToken([]string{}, nil)
	textStart := t.cursor.Clone()
	for !t._peekStr("]]>") {
		if t.cursor.Peek() == util.CharEOF {
			panic(&CursorError{Msg: "Unterminated CDATA section", Cursor: start})
		}
		t.cursor.Advance()
	}
	t._beginToken(TokenTypeTEXT, textStart)
	t._endToken([]string{t.cursor.GetChars(textStart)}, nil)
	cdataEnd := t.cursor.Clone()
	t._requireStr("]]>")
	t._beginToken(TokenTypeCDATA_END, cdataEnd)
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) _consumeDocType(start *CharacterCursor) {
	t._beginToken(TokenTypePROCESSING_INSTRUCTION, start)
	contentStart := t.cursor.Clone()
	t._attemptUntilChar(util.CharGT)
	content := t.cursor.GetChars(contentStart)
	t.cursor.Advance()
	t._endToken([]string{"!", content}, nil)
}

func (t *Tokenizer) _consumeProcessingInstruction(start *CharacterCursor) {
	t._beginToken(TokenTypePROCESSING_INSTRUCTION, start)
	nameStart := t.cursor.Clone()
	t._attemptCharCodeUntilFn(func(code int) bool {
		return util.IsWhitespace(code) || code == util.CharQUESTION || code == util.CharEOF
	})
	target := t.cursor.GetChars(nameStart)
	bodyStart := t.cursor.Clone()
	for !t._peekStr("?>") {
		if t.cursor.Peek() == util.CharEOF {
			panic(&CursorError{Msg: "Unterminated processing instruction", Cursor: start})
		}
		t.cursor.Advance()
	}
	body := t.cursor.GetChars(bodyStart)
	t._requireStr("?>")
	t._endToken([]string{target, strings.TrimSpace(body)}, nil)
}

func (t *Tokenizer) _consumeTagOpen(start *CharacterCursor) {
	var prefix, name string
	openTokenIndex := -1
	defer func() {
		if r := recover(); r != nil {
			// Rewrite the open token as incomplete so the tree builder
			// still sees the partial element.
			if openTokenIndex >= 0 {
				open := t.tokens[openTokenIndex]
				t.tokens[openTokenIndex] = NewIncompleteTagOpenToken(prefix, name, open.SourceSpan())
			} else {
				t._beginToken(TokenTypeINCOMPLETE_TAG_OPEN, start)
				t._endToken([]string{prefix, name}, nil)
			}
			panic(r)
		}
	}()

	if !util.IsAsciiLetter(t.cursor.Peek()) && t.cursor.Peek() != util.CharUnderscore {
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: t.cursor.Clone(),
		})
	}

	parts := t._consumePrefixAndName(isNameEnd)
	prefix = parts[0]
	name = parts[1]
	t._beginToken(TokenTypeTAG_OPEN_START, start)
	t._endToken([]string{prefix, name}, nil)
	openTokenIndex = len(t.tokens) - 1

	t._attemptCharCodeUntilFn(isNotWhitespace)
	for t.cursor.Peek() != util.CharGT && t.cursor.Peek() != util.CharSLASH {
		if t.cursor.Peek() == util.CharEOF {
			panic(&CursorError{Msg: _unexpectedCharacterErrorMsg(util.CharEOF), Cursor: start})
		}
		t._consumeAttr()
		t._attemptCharCodeUntilFn(isNotWhitespace)
	}

	endStart := t.cursor.Clone()
	if t._attemptCharCode(util.CharSLASH) {
		t._requireCharCode(util.CharGT)
		t._beginToken(TokenTypeTAG_OPEN_END_VOID, endStart)
		t._endToken([]string{}, nil)
	} else {
		t._requireCharCode(util.CharGT)
		t._beginToken(TokenTypeTAG_OPEN_END, endStart)
		t._endToken([]string{}, nil)
	}
}

func (t *Tokenizer) _consumeAttr() {
	if isNameEnd(t.cursor.Peek()) {
		// Whatever follows cannot start an attribute name; treat the tag
		// as unterminated rather than spinning on the same character.
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: t.cursor.Clone(),
		})
	}
	attrNameStart := t.cursor.Clone()
	parts := t._consumePrefixAndName(isNameEnd)
	t._beginToken(TokenTypeATTR_NAME, attrNameStart)
	t._endToken(parts, nil)

	t._attemptCharCodeUntilFn(isNotWhitespace)
	if !t._attemptCharCode(util.CharEQ) {
		// Attribute without a value.
		return
	}
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t._consumeAttributeValue()
}

func (t *Tokenizer) _consumeAttributeValue() {
	if util.IsQuote(t.cursor.Peek()) {
		quoteChar := t.cursor.Peek()
		t._consumeQuote(quoteChar)
		valueStart := t.cursor.Clone()
		for t.cursor.Peek() != quoteChar {
			if t.cursor.Peek() == util.CharEOF {
				panic(&CursorError{Msg: "Unterminated attribute value", Cursor: valueStart})
			}
			t.cursor.Advance()
		}
		t._beginToken(TokenTypeATTR_VALUE_TEXT, valueStart)
		t._endToken([]string{t.cursor.GetChars(valueStart)}, nil)
		t._consumeQuote(quoteChar)
	} else {
		valueStart := t.cursor.Clone()
		t._requireCharCodeUntilFn(isNameEnd, 1)
		t._beginToken(TokenTypeATTR_VALUE_TEXT, valueStart)
		t._endToken([]string{t.cursor.GetChars(valueStart)}, nil)
	}
}

func (t *Tokenizer) _consumeQuote(quoteChar int) {
	quoteStart := t.cursor.Clone()
	t._requireCharCode(quoteChar)
	t._beginToken(TokenTypeATTR_QUOTE, quoteStart)
	t._endToken([]string{string(rune(quoteChar))}, nil)
}

func (t *Tokenizer) _consumeTagClose(start *CharacterCursor) {
	t._beginToken(TokenTypeTAG_CLOSE, start)
	t._attemptCharCodeUntilFn(isNotWhitespace)
	parts := t._consumePrefixAndName(isNameEnd)
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t._requireCharCode(util.CharGT)
	t._endToken(parts, nil)
}

func (t *Tokenizer) _consumeText() {
	start := t.cursor.Clone()
	t._beginToken(TokenTypeTEXT, start)
	for t.cursor.Peek() != util.CharLT && t.cursor.Peek() != util.CharEOF {
		t.cursor.Advance()
	}
	t._endToken([]string{t.cursor.GetChars(start)}, nil)
}

func (t *Tokenizer) _beginToken(tokenType TokenType, start *CharacterCursor) {
	if start == nil {
		start = t.cursor.Clone()
	}
	t.currentTokenStart = start
	t.currentTokenType = tokenType
}

func (t *Tokenizer) _endToken(parts []string, end *CharacterCursor) Token {
	if t.currentTokenStart == nil {
		panic("Programming error - attempted to end a token when there was no start to the token")
	}
	if t.currentTokenType == -1 {
		panic("Programming error - attempted to end a token which has no token type")
	}

	cursor := t.cursor
	if end != nil {
		cursor = end
	}
	sourceSpan := cursor.GetSpan(t.currentTokenStart)
	token := NewTokenBase(t.currentTokenType, parts, sourceSpan)

	t.tokens = append(t.tokens, token)
	t.currentTokenStart = nil
	t.currentTokenType = -1
	return token
}

func (t *Tokenizer) _consumePrefixAndName(endPredicate func(code int) bool) []string {
	nameOrPrefixStart := t.cursor.Clone()
	prefix := ""
	for t.cursor.Peek() != util.CharCOLON && !endPredicate(t.cursor.Peek()) {
		t.cursor.Advance()
	}
	var nameStart *CharacterCursor
	if t.cursor.Peek() == util.CharCOLON {
		prefix = t.cursor.GetChars(nameOrPrefixStart)
		t.cursor.Advance()
		nameStart = t.cursor.Clone()
	} else {
		nameStart = nameOrPrefixStart
	}
	minLength := 0
	if prefix != "" {
		minLength = 1
	}
	t._requireCharCodeUntilFn(endPredicate, minLength)
	name := t.cursor.GetChars(nameStart)
	return []string{prefix, name}
}

func (t *Tokenizer) _createError(msg string, span *util.ParseSourceSpan) *util.ParseError {
	t.currentTokenStart = nil
	t.currentTokenType = -1
	return util.NewParseError(span, msg)
}

func (t *Tokenizer) handleError(e interface{}) {
	if cursorErr, ok := e.(*CursorError); ok {
		t.errors = append(t.errors, t._createError(cursorErr.Msg, t.cursor.GetSpan(cursorErr.Cursor)))
	} else if parseErr, ok := e.(*util.ParseError); ok {
		t.errors = append(t.errors, parseErr)
	} else if errStr, ok := e.(string); ok {
		t.errors = append(t.errors, t._createError(errStr, t.cursor.GetSpan(t.cursor.Clone())))
	} else {
		panic(e)
	}
}

func (t *Tokenizer) _attemptCharCode(charCode int) bool {
	if t.cursor.Peek() == charCode {
		t.cursor.Advance()
		return true
	}
	return false
}

func (t *Tokenizer) _requireCharCode(charCode int) {
	location := t.cursor.Clone()
	if !t._attemptCharCode(charCode) {
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: location,
		})
	}
}

func (t *Tokenizer) _attemptStr(charsStr string) bool {
	length := len(charsStr)
	if t.cursor.CharsLeft() < length {
		return false
	}
	initialPosition := t.cursor.Clone()
	for i := 0; i < length; i++ {
		if !t._attemptCharCode(int(charsStr[i])) {
			t.cursor = initialPosition
			return false
		}
	}
	return true
}

func (t *Tokenizer) _requireStr(charsStr string) {
	location := t.cursor.Clone()
	if !t._attemptStr(charsStr) {
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: location,
		})
	}
}

func (t *Tokenizer) _attemptCharCodeUntilFn(predicate func(code int) bool) {
	for !predicate(t.cursor.Peek()) {
		t.cursor.Advance()
	}
}

func (t *Tokenizer) _requireCharCodeUntilFn(predicate func(code int) bool, len int) {
	start := t.cursor.Clone()
	t._attemptCharCodeUntilFn(predicate)
	if t.cursor.Diff(start) < len {
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: start,
		})
	}
}

func (t *Tokenizer) _attemptUntilChar(char int) {
	for t.cursor.Peek() != char {
		if t.cursor.Peek() == util.CharEOF {
			panic(&CursorError{Msg: _unexpectedCharacterErrorMsg(util.CharEOF), Cursor: t.cursor.Clone()})
		}
		t.cursor.Advance()
	}
}

func (t *Tokenizer) _peekStr(charsStr string) bool {
	length := len(charsStr)
	if t.cursor.CharsLeft() < length {
		return false
	}
	cursor := t.cursor.Clone()
	for i := 0; i < length; i++ {
		if cursor.Peek() != int(charsStr[i]) {
			return false
		}
		cursor.Advance()
	}
	return true
}

func isNotWhitespace(code int) bool {
	return !util.IsWhitespace(code) || code == util.CharEOF
}

func isNameEnd(code int) bool {
	return util.IsWhitespace(code) ||
		code == util.CharGT || code == util.CharLT ||
		code == util.CharSLASH || code == util.CharSQ ||
		code == util.CharDQ || code == util.CharEQ ||
		code == util.CharEOF
}

func _unexpectedCharacterErrorMsg(charCode int) string {
	char := string(rune(charCode))
	if charCode == util.CharEOF {
		char = "EOF"
	}
	return fmt.Sprintf("Unexpected character %q", char)
}
