package ml_parser

import "xmc-go/packages/converter/util"

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTAG_OPEN_START TokenType = iota
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	TokenTypeTAG_CLOSE
	TokenTypeINCOMPLETE_TAG_OPEN
	TokenTypeTEXT
	TokenTypeCOMMENT_START
	TokenTypeCOMMENT_END
	TokenTypeCDATA_START
	TokenTypeCDATA_END
	TokenTypeATTR_NAME
	TokenTypeATTR_QUOTE
	TokenTypeATTR_VALUE_TEXT
	TokenTypePROCESSING_INSTRUCTION
	TokenTypeEOF
)

// Token represents a token in the XML source
type Token interface {
	Type() TokenType
	Parts() []string
	SourceSpan() *util.ParseSourceSpan
}

// TokenBase is the base implementation of Token
type TokenBase struct {
	tokenType  TokenType
	parts      []string
	sourceSpan *util.ParseSourceSpan
}

// Type returns the token type
func (t *TokenBase) Type() TokenType {
	return t.tokenType
}

// Parts returns the token parts
func (t *TokenBase) Parts() []string {
	return t.parts
}

// SourceSpan returns the source span
func (t *TokenBase) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

// NewTokenBase creates a new TokenBase
func NewTokenBase(tokenType TokenType, parts []string, sourceSpan *util.ParseSourceSpan) *TokenBase {
	return &TokenBase{
		tokenType:  tokenType,
		parts:      parts,
		sourceSpan: sourceSpan,
	}
}

// NewTagOpenStartToken creates a new tag open start token with prefix and name parts
func NewTagOpenStartToken(prefix, name string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeTAG_OPEN_START, []string{prefix, name}, sourceSpan)
}

// NewTagOpenEndToken creates a new tag open end token
func NewTagOpenEndToken(sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeTAG_OPEN_END, []string{}, sourceSpan)
}

// NewTagOpenEndVoidToken creates a new self-closing tag open end token
func NewTagOpenEndVoidToken(sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeTAG_OPEN_END_VOID, []string{}, sourceSpan)
}

// NewTagCloseToken creates a new tag close token with prefix and name parts
func NewTagCloseToken(prefix, name string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeTAG_CLOSE, []string{prefix, name}, sourceSpan)
}

// NewIncompleteTagOpenToken creates a token for a tag open that never terminated
func NewIncompleteTagOpenToken(prefix, name string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeINCOMPLETE_TAG_OPEN, []string{prefix, name}, sourceSpan)
}

// NewTextToken creates a new text token
func NewTextToken(text string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeTEXT, []string{text}, sourceSpan)
}

// NewAttributeNameToken creates a new attribute name token with prefix and name parts
func NewAttributeNameToken(prefix, name string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeATTR_NAME, []string{prefix, name}, sourceSpan)
}

// NewAttributeQuoteToken creates a new attribute quote token
func NewAttributeQuoteToken(quote string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeATTR_QUOTE, []string{quote}, sourceSpan)
}

// NewAttributeValueTextToken creates a new attribute value text token
func NewAttributeValueTextToken(value string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeATTR_VALUE_TEXT, []string{value}, sourceSpan)
}

// NewProcessingInstructionToken creates a new processing instruction token
// with target and body parts
func NewProcessingInstructionToken(target, body string, sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypePROCESSING_INSTRUCTION, []string{target, body}, sourceSpan)
}

// NewEndOfFileToken creates a new end of file token
func NewEndOfFileToken(sourceSpan *util.ParseSourceSpan) Token {
	return NewTokenBase(TokenTypeEOF, []string{}, sourceSpan)
}
