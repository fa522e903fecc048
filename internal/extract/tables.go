package extract

import "strings"

// parseTableRows reads an aligned pipe-delimited Markdown table whose first
// non-separator line is the header. Each returned row maps lower-cased
// header name to the trimmed, back-tick-stripped cell value; rows with
// fewer cells than the header are dropped.
func parseTableRows(body string) []map[string]string {
	var header []string
	var rows []map[string]string

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") {
			continue
		}
		if isTableSeparator(line) {
			continue
		}

		cells := splitTableRow(line)
		if header == nil {
			header = cells
			continue
		}
		if len(cells) < len(header) {
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			row[strings.ToLower(strings.TrimSpace(name))] = cells[i]
		}
		rows = append(rows, row)
	}

	return rows
}

func splitTableRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.Trim(strings.TrimSpace(p), "`")
	}
	return out
}

// isTableSeparator reports whether line is a Markdown table header
// separator, e.g. "|---|:---:|---|".
func isTableSeparator(line string) bool {
	stripped := strings.Trim(line, "|")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		switch r {
		case '-', ':', '|', ' ':
			continue
		default:
			return false
		}
	}
	return strings.Contains(stripped, "-")
}

// parseListItems returns the trimmed text of every line beginning with
// "- " or "* ", with the marker removed.
func parseListItems(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			out = append(out, strings.TrimSpace(trimmed[2:]))
		case strings.HasPrefix(trimmed, "* "):
			out = append(out, strings.TrimSpace(trimmed[2:]))
		}
	}
	return out
}
