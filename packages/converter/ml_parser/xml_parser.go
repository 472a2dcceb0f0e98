package ml_parser

// XmlParser parses XML documents into the structural AST
type XmlParser struct {
	*Parser
}

// NewXmlParser creates a new XmlParser
func NewXmlParser() *XmlParser {
	return &XmlParser{
		Parser: NewParser(),
	}
}

// Parse parses XML source
func (x *XmlParser) Parse(source, url string) *ParseTreeResult {
	return x.Parser.Parse(source, url)
}
