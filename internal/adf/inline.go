package adf

import "strings"

// markFlag is the converter-internal representation of a run's mark set: a
// flat bit set rather than nested wrapper nodes, mirroring ADF's flat marks.
type markFlag uint8

const (
	markStrong markFlag = 1 << iota
	markEm
	markStrike
	markCode
	markLink
)

func (m markFlag) has(f markFlag) bool { return m&f != 0 }

// textRun is one contiguous piece of block text with a resolved mark set.
type textRun struct {
	text  string
	marks markFlag
	href  string
}

// node converts the run to its wire form. Marks are emitted in a fixed
// order so equal inputs always produce byte-equal documents.
func (r textRun) node() *Node {
	n := &Node{Type: TypeText, Text: r.text}
	for _, m := range []struct {
		flag markFlag
		name string
	}{
		{markStrong, MarkStrong},
		{markEm, MarkEm},
		{markStrike, MarkStrike},
		{markCode, MarkCode},
	} {
		if r.marks.has(m.flag) {
			n.Marks = append(n.Marks, &Mark{Type: m.name})
		}
	}
	if r.marks.has(markLink) {
		n.Marks = append(n.Marks, &Mark{Type: MarkLink, Attrs: map[string]any{"href": r.href}})
	}
	return n
}

// inlineNodes resolves a block's text into ordered text nodes.
func inlineNodes(text string) []*Node {
	runs := resolveInline(text)
	nodes := make([]*Node, 0, len(runs))
	for _, r := range runs {
		nodes = append(nodes, r.node())
	}
	return nodes
}

type tokenKind int

const (
	tokText tokenKind = iota
	tokCode
	tokLink
	tokDelim
)

// inlineToken is one unit of the first tokenizing pass. Delimiter tokens
// later receive pairing results: marks opened and closed here, plus any
// leftover characters that revert to literal text.
type inlineToken struct {
	kind     tokenKind
	text     string
	href     string
	delim    byte
	count    int
	canOpen  bool // not followed by whitespace
	canClose bool // not preceded by whitespace
	opens    []markFlag
	closes   []markFlag
	literal  int
}

// resolveInline converts a block's joined text into runs with resolved mark
// sets. It never fails; malformed syntax degrades to literal text.
func resolveInline(s string) []textRun {
	toks := tokenizeInline(s)
	pairDelimiters(toks)
	return emitRuns(toks)
}

// tokenizeInline scans left to right. Code spans bind tightest and their
// contents are taken verbatim; links are matched structurally and their
// inner text is not rescanned; runs of emphasis delimiters become candidate
// tokens classified by whitespace flanking. Everything else is literal.
func tokenizeInline(s string) []*inlineToken {
	var toks []*inlineToken
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, &inlineToken{kind: tokText, text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '`':
			j := strings.IndexByte(s[i+1:], '`')
			if j < 0 {
				lit.WriteByte(c)
				i++
				continue
			}
			flush()
			toks = append(toks, &inlineToken{kind: tokCode, text: s[i+1 : i+1+j]})
			i += j + 2

		case '[':
			text, href, size, ok := scanLink(s[i:])
			if !ok {
				lit.WriteByte(c)
				i++
				continue
			}
			flush()
			toks = append(toks, &inlineToken{kind: tokLink, text: text, href: href})
			i += size

		case '*', '_', '~':
			n := 1
			for i+n < len(s) && s[i+n] == c {
				n++
			}
			if c == '~' && n < 2 {
				lit.WriteByte(c)
				i++
				continue
			}
			canOpen := i+n < len(s) && !isInlineSpace(s[i+n])
			canClose := i > 0 && !isInlineSpace(s[i-1])
			if !canOpen && !canClose {
				lit.WriteString(s[i : i+n])
				i += n
				continue
			}
			flush()
			toks = append(toks, &inlineToken{kind: tokDelim, delim: c, count: n, canOpen: canOpen, canClose: canClose})
			i += n

		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return toks
}

func isInlineSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// scanLink matches [text](url) at the start of s. Neither part may nest:
// the first ] closes the text and the first ) closes the url.
func scanLink(s string) (text, href string, size int, ok bool) {
	rb := strings.IndexByte(s, ']')
	if rb < 0 {
		return "", "", 0, false
	}
	if strings.IndexByte(s[1:rb], '[') >= 0 {
		return "", "", 0, false
	}
	if rb+1 >= len(s) || s[rb+1] != '(' {
		return "", "", 0, false
	}
	rp := strings.IndexByte(s[rb+2:], ')')
	if rp < 0 {
		return "", "", 0, false
	}
	return s[1:rb], s[rb+2 : rb+2+rp], rb + 2 + rp + 1, true
}

// delimKind maps a delimiter character and consumed width to its mark.
func delimKind(c byte, width int) markFlag {
	if c == '~' {
		return markStrike
	}
	if width == 2 {
		return markStrong
	}
	return markEm
}

// pairDelimiters matches closers against the nearest compatible opener on a
// stack. Double-width matches take strong, single-width em, tildes strike.
// Openers skipped over by a match are dropped so spans cannot cross, and
// anything left unmatched at the end reverts to literal characters at its
// original position.
func pairDelimiters(toks []*inlineToken) {
	type opener struct {
		tok       *inlineToken
		remaining int
	}
	var stack []opener

	for _, t := range toks {
		if t.kind != tokDelim {
			continue
		}
		n := t.count

		if t.canClose {
			for n > 0 {
				top := -1
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k].tok.delim == t.delim {
						top = k
						break
					}
				}
				if top < 0 {
					break
				}
				for len(stack) > top+1 {
					drop := stack[len(stack)-1]
					drop.tok.literal += drop.remaining
					stack = stack[:len(stack)-1]
				}
				o := &stack[top]

				width := 1
				if n >= 2 && o.remaining >= 2 {
					width = 2
				}
				if t.delim == '~' {
					if n < 2 || o.remaining < 2 {
						break
					}
					width = 2
				}
				kind := delimKind(t.delim, width)
				o.tok.opens = append(o.tok.opens, kind)
				t.closes = append(t.closes, kind)
				o.remaining -= width
				n -= width
				if o.remaining == 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}

		if n > 0 && t.canOpen {
			stack = append(stack, opener{tok: t, remaining: n})
		} else if n > 0 {
			t.literal += n
		}
	}

	for _, o := range stack {
		o.tok.literal += o.remaining
	}
}

// emitRuns walks the paired token stream and produces runs under the active
// mark set. An opener's leftover literal characters sit outside the marks it
// opens; a closer's sit after the marks it closes. Matched openers consume
// from the inner end of their run, so opens replay in reverse match order.
// Adjacent runs with identical marks merge.
func emitRuns(toks []*inlineToken) []textRun {
	var runs []textRun
	var strong, em, strike int

	active := func() markFlag {
		var m markFlag
		if strong > 0 {
			m |= markStrong
		}
		if em > 0 {
			m |= markEm
		}
		if strike > 0 {
			m |= markStrike
		}
		return m
	}
	adjust := func(kind markFlag, delta int) {
		switch kind {
		case markStrong:
			strong += delta
		case markEm:
			em += delta
		case markStrike:
			strike += delta
		}
	}
	emit := func(text string, marks markFlag, href string) {
		if text == "" {
			return
		}
		if n := len(runs); n > 0 && runs[n-1].marks == marks && runs[n-1].href == href {
			runs[n-1].text += text
			return
		}
		runs = append(runs, textRun{text: text, marks: marks, href: href})
	}

	for _, t := range toks {
		switch t.kind {
		case tokText:
			emit(t.text, active(), "")
		case tokCode:
			emit(t.text, markCode, "")
		case tokLink:
			emit(t.text, active()|markLink, t.href)
		case tokDelim:
			for _, kind := range t.closes {
				adjust(kind, -1)
			}
			if t.literal > 0 {
				emit(strings.Repeat(string(t.delim), t.literal), active(), "")
			}
			for k := len(t.opens) - 1; k >= 0; k-- {
				adjust(t.opens[k], +1)
			}
		}
	}
	return runs
}
