package adf

// mapBlocks converts segmented spans into block nodes. depth counts container
// ancestors; containers opened past the converter's limit are flattened into
// the current level instead of nesting further.
func (c *Converter) mapBlocks(spans []span, depth int) []*Node {
	var nodes []*Node
	for _, sp := range spans {
		nodes = append(nodes, c.mapBlock(sp, depth)...)
	}
	return nodes
}

// mapBlock returns the nodes for one span, usually exactly one. Flattened
// containers contribute their contents instead.
func (c *Converter) mapBlock(sp span, depth int) []*Node {
	switch sp.kind {
	case kindHeading:
		return []*Node{{
			Type:    TypeHeading,
			Attrs:   map[string]any{"level": sp.level},
			Content: inlineNodes(sp.text),
		}}

	case kindCodeBlock:
		n := &Node{Type: TypeCodeBlock, Content: []*Node{}}
		if sp.text != "" {
			n.Content = []*Node{{Type: TypeText, Text: sp.text}}
		}
		if sp.lang != "" {
			n.Attrs = map[string]any{"language": sp.lang}
		}
		return []*Node{n}

	case kindRule:
		return []*Node{{Type: TypeRule}}

	case kindBlockquote:
		if depth >= c.maxDepth {
			return c.mapBlocks(segment(sp.text), depth)
		}
		inner := c.mapBlocks(segment(sp.text), depth+1)
		if len(inner) == 0 {
			inner = []*Node{emptyParagraph()}
		}
		return []*Node{{Type: TypeBlockquote, Content: inner}}

	case kindBulletList, kindOrderedList:
		t := TypeBulletList
		if sp.kind == kindOrderedList {
			t = TypeOrderedList
		}
		if depth >= c.maxDepth {
			var flat []*Node
			for _, item := range sp.items {
				flat = append(flat, c.mapBlocks(segment(item), depth)...)
			}
			return flat
		}
		return []*Node{{Type: t, Content: c.mapListItems(sp.items, depth+1)}}

	case kindTable:
		return []*Node{c.mapTable(sp, depth)}

	default:
		return []*Node{{Type: TypeParagraph, Content: inlineNodes(sp.text)}}
	}
}

// mapListItems maps each item's content region through a fresh segmentation
// pass, which is where nested lists and multi-block items come from. When an
// item sits at the depth limit its nested lists cannot open another level,
// so their items are spliced in as siblings instead.
func (c *Converter) mapListItems(items []string, depth int) []*Node {
	var out []*Node
	for _, item := range items {
		var content []*Node
		var hoisted []*Node
		for _, child := range segment(item) {
			if depth >= c.maxDepth && (child.kind == kindBulletList || child.kind == kindOrderedList) {
				hoisted = append(hoisted, c.mapListItems(child.items, depth)...)
				continue
			}
			content = append(content, c.mapBlock(child, depth)...)
		}
		if len(content) == 0 {
			content = []*Node{emptyParagraph()}
		}
		out = append(out, &Node{Type: TypeListItem, Content: content})
		out = append(out, hoisted...)
	}
	return out
}

// mapTable normalizes every row to the width of the widest row, padding short
// rows with empty cells and never dropping cell content. The first row
// becomes the header row; cell text runs through full block conversion so
// cells may hold any block content.
func (c *Converter) mapTable(sp span, depth int) *Node {
	width := 0
	for _, row := range sp.rows {
		if len(row) > width {
			width = len(row)
		}
	}

	rows := make([]*Node, 0, len(sp.rows))
	for ri, row := range sp.rows {
		cellType := TypeTableCell
		if ri == 0 {
			cellType = TypeTableHeader
		}
		cells := make([]*Node, 0, width)
		for col := 0; col < width; col++ {
			text := ""
			if col < len(row) {
				text = row[col]
			}
			content := c.mapBlocks(segment(text), depth+1)
			if len(content) == 0 {
				content = []*Node{emptyParagraph()}
			}
			cells = append(cells, &Node{Type: cellType, Content: content})
		}
		rows = append(rows, &Node{Type: TypeTableRow, Content: cells})
	}
	return &Node{Type: TypeTable, Content: rows}
}
