// Package adf converts markdown text into Atlassian Document Format, the
// JSON tree Jira Cloud expects for rich-text fields. Conversion never fails:
// malformed markdown degrades to literal text and the result is always a
// schema-valid document.
package adf

import "strings"

// Document is the top-level ADF envelope.
type Document struct {
	Version int     `json:"version"`
	Type    string  `json:"type"`
	Content []*Node `json:"content"`
}

// Node is a block or inline node of the document tree.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Marks   []*Mark        `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// Mark is inline formatting applied to a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node types understood by the Jira document schema.
const (
	TypeDoc         = "doc"
	TypeParagraph   = "paragraph"
	TypeHeading     = "heading"
	TypeBulletList  = "bulletList"
	TypeOrderedList = "orderedList"
	TypeListItem    = "listItem"
	TypeCodeBlock   = "codeBlock"
	TypeBlockquote  = "blockquote"
	TypeTable       = "table"
	TypeTableRow    = "tableRow"
	TypeTableCell   = "tableCell"
	TypeTableHeader = "tableHeader"
	TypeRule        = "rule"
	TypeText        = "text"
)

// Mark types for inline formatting.
const (
	MarkStrong = "strong"
	MarkEm     = "em"
	MarkStrike = "strike"
	MarkCode   = "code"
	MarkLink   = "link"
)

// PlainText flattens the document to bare text, one line per block. It is a
// compact rendering for summaries and logs, not a faithful one.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	var lines []string
	for _, n := range d.Content {
		if s := nodeText(n); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// nodeText concatenates a node's text runs; nested blocks are separated by
// single spaces.
func nodeText(n *Node) string {
	if n.Type == TypeText {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Content {
		s := nodeText(child)
		if s == "" {
			continue
		}
		if b.Len() > 0 && child.Type != TypeText {
			b.WriteString(" ")
		}
		b.WriteString(s)
	}
	return b.String()
}

// emptyParagraph returns a paragraph with no inline content. Jira renders it
// as a blank line; it also serves as the body of an empty document.
func emptyParagraph() *Node {
	return &Node{Type: TypeParagraph, Content: []*Node{}}
}

// literalParagraph returns a paragraph holding src as a single unformatted
// text run.
func literalParagraph(src string) *Node {
	if src == "" {
		return emptyParagraph()
	}
	return &Node{Type: TypeParagraph, Content: []*Node{{Type: TypeText, Text: src}}}
}
