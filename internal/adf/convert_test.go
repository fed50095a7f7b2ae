package adf

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// checkRun asserts one text node's content and mark types in order.
func checkRun(t *testing.T, n *Node, text string, marks ...string) {
	t.Helper()
	if n.Type != TypeText {
		t.Fatalf("expected text node, got %q", n.Type)
	}
	if n.Text != text {
		t.Fatalf("expected text %q, got %q", text, n.Text)
	}
	var got []string
	for _, m := range n.Marks {
		got = append(got, m.Type)
	}
	if !reflect.DeepEqual(got, marks) {
		t.Fatalf("expected marks %v on %q, got %v", marks, text, got)
	}
}

func TestConvertEmptyInput(t *testing.T) {
	doc := Convert("")

	if doc.Version != 1 || doc.Type != TypeDoc {
		t.Fatalf("unexpected envelope: version=%d type=%q", doc.Version, doc.Type)
	}
	if len(doc.Content) != 1 {
		t.Fatalf("expected a single node, got %d", len(doc.Content))
	}
	p := doc.Content[0]
	if p.Type != TypeParagraph {
		t.Fatalf("expected paragraph, got %q", p.Type)
	}
	if p.Content == nil || len(p.Content) != 0 {
		t.Fatalf("expected empty paragraph content, got %#v", p.Content)
	}
}

func TestConvertPlainText(t *testing.T) {
	doc := Convert("hello world")

	if len(doc.Content) != 1 {
		t.Fatalf("expected one paragraph, got %d nodes", len(doc.Content))
	}
	p := doc.Content[0]
	if p.Type != TypeParagraph || len(p.Content) != 1 {
		t.Fatalf("expected paragraph with one run, got %#v", p)
	}
	checkRun(t, p.Content[0], "hello world")
}

func TestConvertNestedEmphasis(t *testing.T) {
	doc := Convert("**bold *and italic*** end")

	p := doc.Content[0]
	if len(p.Content) != 3 {
		t.Fatalf("expected 3 runs, got %d: %#v", len(p.Content), p.Content)
	}
	checkRun(t, p.Content[0], "bold ", MarkStrong)
	checkRun(t, p.Content[1], "and italic", MarkStrong, MarkEm)
	checkRun(t, p.Content[2], " end")
}

func TestConvertCodeBlock(t *testing.T) {
	doc := Convert("```python\nprint(1)\n```")

	if len(doc.Content) != 1 {
		t.Fatalf("expected one node, got %d", len(doc.Content))
	}
	cb := doc.Content[0]
	if cb.Type != TypeCodeBlock {
		t.Fatalf("expected codeBlock, got %q", cb.Type)
	}
	if lang := cb.Attrs["language"]; lang != "python" {
		t.Fatalf("expected language python, got %v", lang)
	}
	if len(cb.Content) != 1 {
		t.Fatalf("expected one text node, got %#v", cb.Content)
	}
	checkRun(t, cb.Content[0], "print(1)")
}

func TestConvertUnterminatedFence(t *testing.T) {
	doc := Convert("```\nfoo")

	cb := doc.Content[0]
	if cb.Type != TypeCodeBlock {
		t.Fatalf("expected codeBlock, got %q", cb.Type)
	}
	if cb.Attrs["language"] != nil {
		t.Fatalf("expected no language attr, got %v", cb.Attrs["language"])
	}
	checkRun(t, cb.Content[0], "foo")
}

func TestConvertFenceBodyIsVerbatim(t *testing.T) {
	doc := Convert("```\n# not a heading\n**not bold**\n```")

	cb := doc.Content[0]
	if cb.Type != TypeCodeBlock {
		t.Fatalf("expected codeBlock, got %q", cb.Type)
	}
	checkRun(t, cb.Content[0], "# not a heading\n**not bold**")
}

func TestConvertHeadingLevels(t *testing.T) {
	doc := Convert("# one\n\n###### six\n\n####### seven\n\n#nospace")

	if len(doc.Content) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(doc.Content))
	}
	for i, want := range []int{1, 6, 6} {
		h := doc.Content[i]
		if h.Type != TypeHeading {
			t.Fatalf("node %d: expected heading, got %q", i, h.Type)
		}
		if h.Attrs["level"] != want {
			t.Fatalf("node %d: expected level %d, got %v", i, want, h.Attrs["level"])
		}
	}
	if doc.Content[3].Type != TypeParagraph {
		t.Fatalf("expected #nospace to stay a paragraph, got %q", doc.Content[3].Type)
	}
	checkRun(t, doc.Content[3].Content[0], "#nospace")
}

func TestConvertParagraphJoinsLines(t *testing.T) {
	doc := Convert("first line\nsecond line\n\nnext paragraph")

	if len(doc.Content) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Content))
	}
	checkRun(t, doc.Content[0].Content[0], "first line second line")
	checkRun(t, doc.Content[1].Content[0], "next paragraph")
}

func TestConvertLink(t *testing.T) {
	doc := Convert("see [the docs](https://example.com/adf) now")

	p := doc.Content[0]
	if len(p.Content) != 3 {
		t.Fatalf("expected 3 runs, got %#v", p.Content)
	}
	checkRun(t, p.Content[0], "see ")
	checkRun(t, p.Content[1], "the docs", MarkLink)
	checkRun(t, p.Content[2], " now")
	if href := p.Content[1].Marks[0].Attrs["href"]; href != "https://example.com/adf" {
		t.Fatalf("expected href, got %v", href)
	}
}

func TestConvertLists(t *testing.T) {
	doc := Convert("- alpha\n- beta\n\n1. one\n2. two")

	if len(doc.Content) != 2 {
		t.Fatalf("expected 2 lists, got %d nodes", len(doc.Content))
	}
	ul, ol := doc.Content[0], doc.Content[1]
	if ul.Type != TypeBulletList || len(ul.Content) != 2 {
		t.Fatalf("expected bulletList with 2 items, got %#v", ul)
	}
	if ol.Type != TypeOrderedList || len(ol.Content) != 2 {
		t.Fatalf("expected orderedList with 2 items, got %#v", ol)
	}
	item := ul.Content[0]
	if item.Type != TypeListItem || item.Content[0].Type != TypeParagraph {
		t.Fatalf("expected listItem holding a paragraph, got %#v", item)
	}
	checkRun(t, item.Content[0].Content[0], "alpha")
}

func TestConvertListFamilySplit(t *testing.T) {
	doc := Convert("- bullet\n1. ordered")

	if len(doc.Content) != 2 {
		t.Fatalf("expected families to split into 2 lists, got %d", len(doc.Content))
	}
	if doc.Content[0].Type != TypeBulletList || doc.Content[1].Type != TypeOrderedList {
		t.Fatalf("got %q and %q", doc.Content[0].Type, doc.Content[1].Type)
	}
}

func TestConvertNestedList(t *testing.T) {
	doc := Convert("- outer\n  - inner")

	ul := doc.Content[0]
	if len(ul.Content) != 1 {
		t.Fatalf("expected one top item, got %d", len(ul.Content))
	}
	item := ul.Content[0]
	if len(item.Content) != 2 {
		t.Fatalf("expected paragraph plus nested list, got %#v", item.Content)
	}
	if item.Content[1].Type != TypeBulletList {
		t.Fatalf("expected nested bulletList, got %q", item.Content[1].Type)
	}
}

func TestConvertBlockquote(t *testing.T) {
	doc := Convert("> quoted **text**\n> more")

	q := doc.Content[0]
	if q.Type != TypeBlockquote {
		t.Fatalf("expected blockquote, got %q", q.Type)
	}
	p := q.Content[0]
	if p.Type != TypeParagraph {
		t.Fatalf("expected paragraph inside quote, got %q", p.Type)
	}
	checkRun(t, p.Content[0], "quoted ")
	checkRun(t, p.Content[1], "text", MarkStrong)
	checkRun(t, p.Content[2], " more")
}

func TestConvertRule(t *testing.T) {
	doc := Convert("above\n\n---\n\nbelow")

	if len(doc.Content) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(doc.Content))
	}
	if doc.Content[1].Type != TypeRule {
		t.Fatalf("expected rule, got %q", doc.Content[1].Type)
	}
}

func TestConvertTablePadsShortRows(t *testing.T) {
	doc := Convert("| a | b | c |\n| --- | --- | --- |\n| 1 | 2 |")

	table := doc.Content[0]
	if table.Type != TypeTable {
		t.Fatalf("expected table, got %q", table.Type)
	}
	if len(table.Content) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Content))
	}
	header := table.Content[0]
	for _, cell := range header.Content {
		if cell.Type != TypeTableHeader {
			t.Fatalf("expected header cells in first row, got %q", cell.Type)
		}
	}
	row := table.Content[1]
	if len(row.Content) != 3 {
		t.Fatalf("expected padded row of 3 cells, got %d", len(row.Content))
	}
	pad := row.Content[2]
	if pad.Type != TypeTableCell {
		t.Fatalf("expected tableCell, got %q", pad.Type)
	}
	if len(pad.Content) != 1 || pad.Content[0].Type != TypeParagraph || len(pad.Content[0].Content) != 0 {
		t.Fatalf("expected padding cell to hold an empty paragraph, got %#v", pad.Content)
	}
}

func TestConvertTableWithoutSeparatorIsText(t *testing.T) {
	doc := Convert("| just | pipes |\n| no | separator |")

	for _, n := range doc.Content {
		if n.Type == TypeTable {
			t.Fatalf("expected no table without a separator row, got %#v", n)
		}
	}
}

// countNodes walks the tree counting nodes of one type.
func countNodes(n *Node, nodeType string) int {
	count := 0
	if n.Type == nodeType {
		count++
	}
	for _, child := range n.Content {
		count += countNodes(child, nodeType)
	}
	return count
}

// maxContainerDepth reports the deepest list/blockquote nesting in the tree.
func maxContainerDepth(n *Node, depth int) int {
	d := depth
	switch n.Type {
	case TypeBulletList, TypeOrderedList, TypeBlockquote:
		d++
	}
	deepest := d
	for _, child := range n.Content {
		if cd := maxContainerDepth(child, d); cd > deepest {
			deepest = cd
		}
	}
	return deepest
}

func TestConvertDeepListFlattens(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString(strings.Repeat("  ", i))
		b.WriteString("- item\n")
	}
	doc := Convert(b.String())

	items := 0
	deepest := 0
	for _, n := range doc.Content {
		items += countNodes(n, TypeListItem)
		if d := maxContainerDepth(n, 0); d > deepest {
			deepest = d
		}
	}
	if deepest != DefaultMaxDepth {
		t.Fatalf("expected nesting capped at %d, got %d", DefaultMaxDepth, deepest)
	}
	if items != 15 {
		t.Fatalf("expected all 15 items preserved, got %d", items)
	}
}

func TestConvertMaxDepthOption(t *testing.T) {
	c := New(WithMaxDepth(2))
	doc := c.Convert("- a\n  - b\n    - c\n      - d")

	deepest := 0
	items := 0
	for _, n := range doc.Content {
		items += countNodes(n, TypeListItem)
		if d := maxContainerDepth(n, 0); d > deepest {
			deepest = d
		}
	}
	if deepest != 2 {
		t.Fatalf("expected nesting capped at 2, got %d", deepest)
	}
	if items != 4 {
		t.Fatalf("expected 4 items preserved, got %d", items)
	}
}

func TestConvertDeepBlockquoteFlattens(t *testing.T) {
	c := New(WithMaxDepth(3))
	doc := c.Convert(">>>>> deep")

	deepest := 0
	for _, n := range doc.Content {
		if d := maxContainerDepth(n, 0); d > deepest {
			deepest = d
		}
	}
	if deepest != 3 {
		t.Fatalf("expected quote nesting capped at 3, got %d", deepest)
	}
}

const kitchenSink = "# Title\n" +
	"\n" +
	"Intro with **bold**, *em*, ~~old~~, `code`, and [a link](https://example.com/x).\n" +
	"\n" +
	"- one\n" +
	"- two\n" +
	"  - nested\n" +
	"\n" +
	"1. first\n" +
	"2. second\n" +
	"\n" +
	"> quoted **text**\n" +
	"> more\n" +
	"\n" +
	"| h1 | h2 | h3 |\n" +
	"| --- | --- | --- |\n" +
	"| a | b |\n" +
	"\n" +
	"```go\nfmt.Println(1)\n```\n" +
	"\n" +
	"---\n" +
	"\n" +
	"done\n"

func TestConvertDeterministic(t *testing.T) {
	first := Convert(kitchenSink)
	second := Convert(kitchenSink)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("equal inputs produced different trees")
	}
	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("equal inputs produced different JSON:\n%s\n%s", a, b)
	}
}

func TestPlainText(t *testing.T) {
	doc := Convert("# Title\n\nSome **bold** text\n\n- a\n- b")

	if got := doc.PlainText(); got != "Title\nSome bold text\na b" {
		t.Fatalf("got %q", got)
	}
	var nilDoc *Document
	if nilDoc.PlainText() != "" {
		t.Fatalf("expected empty text for nil document")
	}
}

func TestConvertAlwaysValid(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"|||",
		"| a |\n| b |",
		"> ",
		"****",
		"**unclosed *everything `here",
		"- \n- ",
		"####### \n```",
		"[text](",
		"~~\n~~",
		kitchenSink,
	}
	for _, in := range inputs {
		doc := Convert(in)
		if doc == nil {
			t.Fatalf("nil document for %q", in)
		}
		if len(doc.Content) == 0 {
			t.Fatalf("empty document content for %q", in)
		}
		for _, n := range doc.Content {
			if err := validateBlock(n); err != nil {
				t.Fatalf("invalid node for %q: %v", in, err)
			}
		}
	}
}
