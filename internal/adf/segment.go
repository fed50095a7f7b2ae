package adf

import "strings"

// blockKind enumerates the block constructs the segmenter recognizes.
type blockKind int

const (
	kindParagraph blockKind = iota
	kindHeading
	kindCodeBlock
	kindBulletList
	kindOrderedList
	kindBlockquote
	kindTable
	kindRule
)

// span is one block-level region of the source. raw keeps the original lines
// of the region so later stages can fall back to them verbatim.
type span struct {
	kind  blockKind
	raw   string
	text  string     // heading/paragraph: joined content; codeBlock: verbatim body; blockquote: unquoted inner text
	level int        // heading level 1..6
	lang  string     // codeBlock language tag, "" when absent
	items []string   // list: one content region per item, marker stripped
	rows  [][]string // table: cell texts per row, rows[0] is the header row
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// segment splits markdown into non-overlapping block spans covering the whole
// input. Inside a fenced code block every other construct is suspended until
// the fence closes or the input ends.
func segment(input string) []span {
	lines := strings.Split(newlines.Replace(input), "\n")

	var spans []span
	var para, paraRaw []string
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		spans = append(spans, span{
			kind: kindParagraph,
			raw:  strings.Join(paraRaw, "\n"),
			text: strings.Join(para, " "),
		})
		para, paraRaw = nil, nil
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flushPara()
			i++
			continue
		}

		if marker, lang, ok := fenceOpen(trimmed); ok {
			flushPara()
			sp, next := scanFence(lines, i, marker, lang)
			spans = append(spans, sp)
			i = next
			continue
		}

		if isRule(trimmed) {
			flushPara()
			spans = append(spans, span{kind: kindRule, raw: line})
			i++
			continue
		}

		if level, text, ok := headingLine(trimmed); ok {
			flushPara()
			spans = append(spans, span{kind: kindHeading, raw: line, text: text, level: level})
			i++
			continue
		}

		if strings.HasPrefix(trimmed, ">") {
			flushPara()
			sp, next := scanQuote(lines, i)
			spans = append(spans, sp)
			i = next
			continue
		}

		if _, _, ok, ordered := splitListMarker(line); ok {
			flushPara()
			sp, next := scanList(lines, i, ordered)
			spans = append(spans, sp)
			i = next
			continue
		}

		if strings.HasPrefix(trimmed, "|") {
			if sp, next, ok := scanTable(lines, i); ok {
				flushPara()
				spans = append(spans, sp)
				i = next
				continue
			}
			// No separator row follows, so the pipes are ordinary text.
		}

		para = append(para, trimmed)
		paraRaw = append(paraRaw, line)
		i++
	}
	flushPara()
	return spans
}

// fenceOpen matches a fence marker at the start of a trimmed line, returning
// the marker and the language tag that follows it.
func fenceOpen(trimmed string) (marker, lang string, ok bool) {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			tag := strings.TrimSpace(trimmed[len(m):])
			if fields := strings.Fields(tag); len(fields) > 0 {
				tag = fields[0]
			}
			return m, tag, true
		}
	}
	return "", "", false
}

// scanFence consumes a fenced code block opened at lines[start]. The body is
// kept verbatim. A fence left open runs to the end of the input.
func scanFence(lines []string, start int, marker, lang string) (span, int) {
	raw := []string{lines[start]}
	var body []string
	i := start + 1
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == marker {
			raw = append(raw, lines[i])
			i++
			break
		}
		body = append(body, lines[i])
		raw = append(raw, lines[i])
		i++
	}
	return span{
		kind: kindCodeBlock,
		raw:  strings.Join(raw, "\n"),
		text: strings.Join(body, "\n"),
		lang: lang,
	}, i
}

// isRule reports whether the trimmed line is a thematic break: three or more
// of the same rule character and nothing else.
func isRule(trimmed string) bool {
	if len(trimmed) < 3 {
		return false
	}
	c := trimmed[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] != c {
			return false
		}
	}
	return true
}

// headingLine matches an ATX heading. Seven or more hashes still parse as a
// heading and clamp to level 6; hashes with no following whitespace do not
// form a heading at all.
func headingLine(trimmed string) (level int, text string, ok bool) {
	if !strings.HasPrefix(trimmed, "#") {
		return 0, "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	rest := trimmed[n:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return 0, "", false
	}
	if n > 6 {
		n = 6
	}
	return n, strings.TrimSpace(rest), true
}

// scanQuote consumes consecutive quote lines and strips one level of marker;
// the inner text is re-segmented when the block is mapped, so nested quotes
// resolve through recursion.
func scanQuote(lines []string, start int) (span, int) {
	var inner, raw []string
	i := start
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, ">") {
			break
		}
		s := strings.TrimPrefix(trimmed, ">")
		s = strings.TrimPrefix(s, " ")
		inner = append(inner, s)
		raw = append(raw, lines[i])
		i++
	}
	return span{
		kind: kindBlockquote,
		raw:  strings.Join(raw, "\n"),
		text: strings.Join(inner, "\n"),
	}, i
}

// splitListMarker matches a list item marker, returning the indentation
// width before it and the content after it.
func splitListMarker(line string) (indent int, content string, ok, ordered bool) {
	n := indentWidth(line)
	rest := line[n:]
	if len(rest) >= 2 && (rest[0] == '-' || rest[0] == '*' || rest[0] == '+') && (rest[1] == ' ' || rest[1] == '\t') {
		return n, strings.TrimLeft(rest[2:], " \t"), true, false
	}
	d := 0
	for d < len(rest) && rest[d] >= '0' && rest[d] <= '9' {
		d++
	}
	if d > 0 && d+1 < len(rest) && rest[d] == '.' && (rest[d+1] == ' ' || rest[d+1] == '\t') {
		return n, strings.TrimLeft(rest[d+2:], " \t"), true, true
	}
	return 0, "", false, false
}

func indentWidth(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// scanList consumes one list of a single marker family starting at
// lines[start]. Lines indented deeper than the opening marker stay inside
// the current item and are re-segmented during mapping, which is how nested
// lists form. A blank line, a shallower non-item line, or a marker from the
// other family ends the list.
func scanList(lines []string, start int, ordered bool) (span, int) {
	baseIndent, first, _, _ := splitListMarker(lines[start])
	raw := []string{lines[start]}
	cur := []string{first}
	var items []string

	i := start + 1
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		indent, content, isItem, ord := splitListMarker(line)
		if isItem && indent <= baseIndent {
			if ord != ordered {
				break
			}
			items = append(items, strings.Join(cur, "\n"))
			cur = []string{content}
			raw = append(raw, line)
			i++
			continue
		}
		if !isItem && indentWidth(line) <= baseIndent {
			break
		}
		cur = append(cur, line)
		raw = append(raw, line)
		i++
	}
	items = append(items, strings.Join(cur, "\n"))

	kind := kindBulletList
	if ordered {
		kind = kindOrderedList
	}
	return span{kind: kind, raw: strings.Join(raw, "\n"), items: items}, i
}

// scanTable consumes a pipe table when lines[start] is a cell row immediately
// followed by a separator row. Without the separator it reports ok=false and
// the caller treats the line as paragraph text.
func scanTable(lines []string, start int) (span, int, bool) {
	if start+1 >= len(lines) || !isSeparatorRow(lines[start+1]) {
		return span{}, start, false
	}
	var rows [][]string
	var raw []string
	i := start
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
		if i != start+1 {
			rows = append(rows, splitTableRow(lines[i]))
		}
		raw = append(raw, lines[i])
		i++
	}
	return span{kind: kindTable, raw: strings.Join(raw, "\n"), rows: rows}, i, true
}

// isSeparatorRow matches the header separator: pipes around cells made only
// of dashes and optional alignment colons.
func isSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !strings.Contains(c, "-") {
			return false
		}
		for _, r := range c {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

// splitTableRow splits a pipe row into trimmed cell texts, dropping the
// outer pipes.
func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
