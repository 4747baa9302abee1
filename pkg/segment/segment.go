// Package segment splits text into bounded pieces for speech APIs that cap
// the input length of a single request.
package segment

import "strings"

// separators are tried coarsest-first: paragraphs, lines, sentences,
// clauses, words.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", ", ", " "}

// Split breaks text into segments of at most limit runes each, cutting at
// the coarsest boundary that fits. Segments are trimmed and empty ones
// dropped; a word longer than the limit is cut mid-word as a last resort.
// A limit <= 0 disables splitting.
func Split(text string, limit int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if limit <= 0 || len([]rune(trimmed)) <= limit {
		return []string{trimmed}
	}

	var out []string
	for _, piece := range split(trimmed, separators, limit) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func split(text string, seps []string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}
	if len(seps) == 0 {
		return hardSplit(text, limit)
	}

	parts := strings.Split(text, seps[0])
	if len(parts) == 1 {
		return split(text, seps[1:], limit)
	}

	// Re-attach the separator so sentence punctuation survives, then pack
	// consecutive parts greedily up to the limit.
	var out []string
	var cur strings.Builder
	for i, part := range parts {
		piece := part
		if i < len(parts)-1 {
			piece += seps[0]
		}
		if len([]rune(piece)) > limit {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			out = append(out, split(piece, seps[1:], limit)...)
			continue
		}
		if cur.Len() > 0 && len([]rune(cur.String()))+len([]rune(piece)) > limit {
			out = append(out, cur.String())
			cur.Reset()
		}
		cur.WriteString(piece)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// hardSplit cuts at rune boundaries when no separator fits inside the limit.
func hardSplit(text string, limit int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
