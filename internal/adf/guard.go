package adf

import "fmt"

// repair checks every top-level node against the document schema and swaps
// any non-conforming one for a paragraph holding that region's original
// source text. A failure here means a converter defect, not bad input, so it
// is logged and repaired rather than surfaced to the caller.
func (c *Converter) repair(doc *Document, origins []string) {
	for i, n := range doc.Content {
		err := validateBlock(n)
		if err == nil {
			continue
		}
		if c.logger != nil {
			c.logger.Warn("replacing malformed node with literal text", "type", n.Type, "err", err)
		}
		doc.Content[i] = literalParagraph(origins[i])
	}
}

// validateBlock checks one block node and everything under it against the
// subset of the ADF schema this converter emits.
func validateBlock(n *Node) error {
	switch n.Type {
	case TypeParagraph, TypeHeading:
		if n.Type == TypeHeading {
			level, ok := n.Attrs["level"].(int)
			if !ok || level < 1 || level > 6 {
				return fmt.Errorf("heading level %v out of range", n.Attrs["level"])
			}
		}
		for _, child := range n.Content {
			if err := validateInline(child); err != nil {
				return err
			}
		}
		return nil

	case TypeCodeBlock:
		for _, child := range n.Content {
			if child.Type != TypeText || child.Text == "" {
				return fmt.Errorf("codeBlock content must be non-empty text nodes")
			}
			if len(child.Marks) != 0 {
				return fmt.Errorf("codeBlock text cannot carry marks")
			}
		}
		return nil

	case TypeBulletList, TypeOrderedList:
		if len(n.Content) == 0 {
			return fmt.Errorf("%s requires at least one item", n.Type)
		}
		for _, item := range n.Content {
			if item.Type != TypeListItem {
				return fmt.Errorf("%s cannot contain %s", n.Type, item.Type)
			}
			if len(item.Content) == 0 {
				return fmt.Errorf("listItem requires content")
			}
			for _, child := range item.Content {
				if err := validateBlock(child); err != nil {
					return err
				}
			}
		}
		return nil

	case TypeBlockquote:
		if len(n.Content) == 0 {
			return fmt.Errorf("blockquote requires content")
		}
		for _, child := range n.Content {
			if err := validateBlock(child); err != nil {
				return err
			}
		}
		return nil

	case TypeTable:
		if len(n.Content) == 0 {
			return fmt.Errorf("table requires at least one row")
		}
		for _, row := range n.Content {
			if row.Type != TypeTableRow {
				return fmt.Errorf("table cannot contain %s", row.Type)
			}
			for _, cell := range row.Content {
				if cell.Type != TypeTableCell && cell.Type != TypeTableHeader {
					return fmt.Errorf("tableRow cannot contain %s", cell.Type)
				}
				if len(cell.Content) == 0 {
					return fmt.Errorf("%s requires content", cell.Type)
				}
				for _, child := range cell.Content {
					if err := validateBlock(child); err != nil {
						return err
					}
				}
			}
		}
		return nil

	case TypeRule:
		return nil
	}
	return fmt.Errorf("unknown block type %q", n.Type)
}

// validateInline checks a text node and its marks.
func validateInline(n *Node) error {
	if n.Type != TypeText {
		return fmt.Errorf("inline content cannot contain %s", n.Type)
	}
	if n.Text == "" {
		return fmt.Errorf("text node requires text")
	}
	for _, m := range n.Marks {
		switch m.Type {
		case MarkStrong, MarkEm, MarkStrike, MarkCode:
		case MarkLink:
			href, ok := m.Attrs["href"].(string)
			if !ok || href == "" {
				return fmt.Errorf("link mark requires href")
			}
		default:
			return fmt.Errorf("unknown mark type %q", m.Type)
		}
	}
	return nil
}
