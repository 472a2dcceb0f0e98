package ml_parser

import (
	"fmt"

	"xmc-go/packages/converter/util"
)

// TreeError represents a tree parsing error
type TreeError struct {
	*util.ParseError
	ElementName *string
}

// NewTreeError creates a new TreeError
func NewTreeError(elementName *string, span *util.ParseSourceSpan, msg string) *TreeError {
	return &TreeError{
		ParseError:  util.NewParseError(span, msg),
		ElementName: elementName,
	}
}

// ParseTreeResult represents the result of parsing a tree
type ParseTreeResult struct {
	RootNodes []Node
	Errors    []*util.ParseError
}

// NewParseTreeResult creates a new ParseTreeResult
func NewParseTreeResult(rootNodes []Node, errors []*util.ParseError) *ParseTreeResult {
	return &ParseTreeResult{
		RootNodes: rootNodes,
		Errors:    errors,
	}
}

// Parser parses XML source into a structural AST
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses source code into a ParseTreeResult
func (p *Parser) Parse(source, url string) *ParseTreeResult {
	tokenizeResult := Tokenize(source, url)
	treeBuilder := NewTreeBuilder(tokenizeResult.Tokens)
	treeBuilder.Build()

	allErrors := tokenizeResult.Errors
	for _, err := range treeBuilder.Errors() {
		allErrors = append(allErrors, err.ParseError)
	}
	return NewParseTreeResult(treeBuilder.RootNodes(), allErrors)
}

// TreeBuilder builds a structural tree from tokens
type TreeBuilder struct {
	index        int
	peek         Token
	elementStack []*Element
	rootNodes    []Node
	errors       []*TreeError
	tokens       []Token
}

// NewTreeBuilder creates a new TreeBuilder
func NewTreeBuilder(tokens []Token) *TreeBuilder {
	tb := &TreeBuilder{
		index:        -1,
		elementStack: []*Element{},
		rootNodes:    []Node{},
		errors:       []*TreeError{},
		tokens:       tokens,
	}
	if len(tokens) > 0 {
		tb.advance()
	}
	return tb
}

// RootNodes returns the root nodes of the built tree
func (tb *TreeBuilder) RootNodes() []Node {
	return tb.rootNodes
}

// Errors returns the tree building errors
func (tb *TreeBuilder) Errors() []*TreeError {
	return tb.errors
}

// Build builds the tree from tokens
func (tb *TreeBuilder) Build() {
	for tb.peek != nil && tb.peek.Type() != TokenTypeEOF {
		switch tb.peek.Type() {
		case TokenTypeTAG_OPEN_START, TokenTypeINCOMPLETE_TAG_OPEN:
			tb.consumeStartTag(tb.advance())
		case TokenTypeTAG_CLOSE:
			tb.consumeEndTag(tb.advance())
		case TokenTypeCDATA_START:
			tb.advance()
			tb.consumeText(tb.advance())
			tb.advanceIf(TokenTypeCDATA_END)
		case TokenTypeCOMMENT_START:
			tb.advance()
			tb.consumeComment(tb.advance())
		case TokenTypeTEXT:
			tb.consumeText(tb.advance())
		case TokenTypePROCESSING_INSTRUCTION:
			tb.consumeDeclaration(tb.advance())
		default:
			tb.advance()
		}
	}

	for _, el := range tb.elementStack {
		name := el.FullName()
		tb.errors = append(tb.errors, NewTreeError(&name, el.StartSourceSpan,
			fmt.Sprintf("Unexpected EOF. Unclosed tag %q", name)))
	}
}

func (tb *TreeBuilder) advance() Token {
	prev := tb.peek
	if tb.index < len(tb.tokens)-1 {
		tb.index++
	}
	if tb.index < len(tb.tokens) {
		tb.peek = tb.tokens[tb.index]
	} else {
		tb.peek = nil
	}
	return prev
}

func (tb *TreeBuilder) advanceIf(tokenType TokenType) Token {
	if tb.peek != nil && tb.peek.Type() == tokenType {
		return tb.advance()
	}
	return nil
}

func (tb *TreeBuilder) consumeStartTag(startToken Token) {
	parts := startToken.Parts()
	prefix, name := parts[0], parts[1]
	var attrs []*Attribute
	for tb.peek != nil && tb.peek.Type() == TokenTypeATTR_NAME {
		attrs = append(attrs, tb.consumeAttr(tb.advance()))
	}

	selfClosing := false
	var endSpan *util.ParseSourceSpan
	if tb.peek != nil && tb.peek.Type() == TokenTypeTAG_OPEN_END_VOID {
		endSpan = tb.advance().SourceSpan()
		selfClosing = true
	} else if tb.peek != nil && tb.peek.Type() == TokenTypeTAG_OPEN_END {
		endSpan = tb.advance().SourceSpan()
	}

	start := startToken.SourceSpan().Start
	var end *util.ParseLocation
	if endSpan != nil {
		end = endSpan.End
	} else {
		end = startToken.SourceSpan().End
	}
	span := util.NewParseSourceSpan(start, end, start, nil)
	startSpan := util.NewParseSourceSpan(start, end, start, nil)
	el := NewElement(prefix, name, attrs, []Node{}, selfClosing, span, startSpan, nil)

	if startToken.Type() == TokenTypeINCOMPLETE_TAG_OPEN {
		fullName := el.FullName()
		tb.errors = append(tb.errors, NewTreeError(&fullName, startToken.SourceSpan(),
			fmt.Sprintf("Opening tag %q not terminated.", fullName)))
		selfClosing = true
		el.IsSelfClosing = true
	}

	tb.addToParent(el)
	if !selfClosing {
		tb.elementStack = append(tb.elementStack, el)
	}
}

func (tb *TreeBuilder) consumeAttr(attrName Token) *Attribute {
	parts := attrName.Parts()
	prefix, name := parts[0], parts[1]
	keySpan := attrName.SourceSpan()

	value := ""
	var valueSpan *util.ParseSourceSpan
	end := keySpan.End

	tb.advanceIf(TokenTypeATTR_QUOTE)
	if tb.peek != nil && tb.peek.Type() == TokenTypeATTR_VALUE_TEXT {
		valueToken := tb.advance()
		value = valueToken.Parts()[0]
		valueSpan = valueToken.SourceSpan()
		end = valueSpan.End
	}
	if quote := tb.advanceIf(TokenTypeATTR_QUOTE); quote != nil {
		end = quote.SourceSpan().End
	}

	span := util.NewParseSourceSpan(keySpan.Start, end, keySpan.Start, nil)
	return NewAttribute(prefix, name, value, span, keySpan, valueSpan)
}

func (tb *TreeBuilder) consumeEndTag(endToken Token) {
	parts := endToken.Parts()
	prefix, name := parts[0], parts[1]
	fullName := name
	if prefix != "" {
		fullName = prefix + ":" + name
	}

	if len(tb.elementStack) == 0 {
		tb.errors = append(tb.errors, NewTreeError(&fullName, endToken.SourceSpan(),
			fmt.Sprintf("Unexpected closing tag %q. There are no open elements.", fullName)))
		return
	}

	el := tb.elementStack[len(tb.elementStack)-1]
	if el.FullName() != fullName {
		tb.errors = append(tb.errors, NewTreeError(&fullName, endToken.SourceSpan(),
			fmt.Sprintf("Unexpected closing tag %q. Expected %q.", fullName, el.FullName())))
	}
	tb.elementStack = tb.elementStack[:len(tb.elementStack)-1]
	el.EndSourceSpan = endToken.SourceSpan()
	el.NodeBase = &NodeBase{sourceSpan: util.NewParseSourceSpan(
		el.StartSourceSpan.Start, endToken.SourceSpan().End, el.StartSourceSpan.Start, nil)}
}

func (tb *TreeBuilder) consumeText(token Token) {
	text := token.Parts()[0]
	if text != "" {
		tb.addToParent(NewText(text, token.SourceSpan()))
	}
}

func (tb *TreeBuilder) consumeComment(token Token) {
	value := ""
	if token.Type() == TokenTypeTEXT {
		value = token.Parts()[0]
		tb.advanceIf(TokenTypeCOMMENT_END)
		start := token.SourceSpan()
		tb.addToParent(NewComment(value, start))
	}
}

func (tb *TreeBuilder) consumeDeclaration(token Token) {
	parts := token.Parts()
	tb.addToParent(NewDeclaration(parts[0], parts[1], token.SourceSpan()))
}

func (tb *TreeBuilder) addToParent(node Node) {
	if len(tb.elementStack) == 0 {
		tb.rootNodes = append(tb.rootNodes, node)
		return
	}
	parent := tb.elementStack[len(tb.elementStack)-1]
	parent.Children = append(parent.Children, node)
}
