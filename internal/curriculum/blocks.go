package curriculum

import (
	"regexp"
	"strings"
)

var (
	headingPattern   = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	fencePattern     = regexp.MustCompile("^(```|~~~)\\s*([A-Za-z0-9_+#.-]*)")
	imagePattern     = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]*)(?:\s+"[^"]*")?\)\s*$`)
	unorderedPattern = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	orderedPattern   = regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`)
	tableSeparator   = regexp.MustCompile(`^\|?\s*:?-{2,}:?\s*(\|\s*:?-{2,}:?\s*)*\|?$`)
)

type listKind int

const (
	notList listKind = iota
	unorderedList
	orderedList
)

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(raw, "\n")
}

func matchHeading(line string) (int, string, bool) {
	m := headingPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), m[2], true
}

func matchFence(line string) (string, string, bool) {
	m := fencePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.ToLower(m[2]), true
}

func classifyListItem(line string) (listKind, string) {
	if m := orderedPattern.FindStringSubmatch(line); m != nil {
		return orderedList, strings.TrimSpace(m[1])
	}
	if m := unorderedPattern.FindStringSubmatch(line); m != nil {
		return unorderedList, strings.TrimSpace(m[1])
	}
	return notList, ""
}

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func isQuote(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ">")
}

// startsBlock reports whether the line opens a block other than a paragraph.
func startsBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if _, _, ok := matchHeading(trimmed); ok {
		return true
	}
	if _, _, ok := matchFence(trimmed); ok {
		return true
	}
	if imagePattern.MatchString(trimmed) || isTableRow(trimmed) || isQuote(trimmed) {
		return true
	}
	kind, _ := classifyListItem(line)
	return kind != notList
}

func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	cells := strings.Split(trimmed, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// ParseBlocks scans markdown once, left to right, and returns the typed
// blocks in document order. An unterminated code fence runs to the end of
// the input.
func ParseBlocks(raw string) []Block {
	lines := splitLines(raw)
	blocks := make([]Block, 0, len(lines)/4)

	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			i++
			continue
		}

		if level, text, ok := matchHeading(trimmed); ok {
			blocks = append(blocks, Block{Type: BlockHeading, Level: level, Content: stripHTML(text)})
			i++
			continue
		}

		if marker, language, ok := matchFence(trimmed); ok {
			i++
			var body []string
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), marker) {
				body = append(body, lines[i])
				i++
			}
			if i < len(lines) {
				i++
			}
			blocks = append(blocks, Block{
				Type:     BlockCode,
				Content:  strings.Join(body, "\n"),
				Language: language,
				Runnable: language == "python" || language == "py",
			})
			continue
		}

		if m := imagePattern.FindStringSubmatch(trimmed); m != nil {
			blocks = append(blocks, Block{Type: BlockImage, Alt: m[1], Src: m[2]})
			i++
			continue
		}

		if kind, _ := classifyListItem(line); kind != notList {
			block := Block{Type: BlockList, Ordered: kind == orderedList}
			for i < len(lines) {
				next, item := classifyListItem(lines[i])
				if next != kind {
					break
				}
				block.Items = append(block.Items, item)
				i++
			}
			blocks = append(blocks, block)
			continue
		}

		if isTableRow(trimmed) {
			block := Block{Type: BlockTable}
			first := true
			for i < len(lines) && isTableRow(lines[i]) {
				row := strings.TrimSpace(lines[i])
				i++
				if tableSeparator.MatchString(row) {
					continue
				}
				if first {
					block.Headers = splitTableRow(row)
					first = false
					continue
				}
				block.Rows = append(block.Rows, splitTableRow(row))
			}
			blocks = append(blocks, block)
			continue
		}

		if isQuote(trimmed) {
			var parts []string
			for i < len(lines) && isQuote(lines[i]) {
				text := strings.TrimPrefix(strings.TrimSpace(lines[i]), ">")
				if text = strings.TrimSpace(text); text != "" {
					parts = append(parts, text)
				}
				i++
			}
			blocks = append(blocks, Block{Type: BlockQuote, Content: strings.Join(parts, " ")})
			continue
		}

		parts := []string{trimmed}
		i++
		for i < len(lines) && !startsBlock(lines[i]) {
			parts = append(parts, strings.TrimSpace(lines[i]))
			i++
		}
		blocks = append(blocks, Block{Type: BlockParagraph, Content: strings.Join(parts, " ")})
	}

	return blocks
}
