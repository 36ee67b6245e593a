// Package palette parses canned-command configuration files and presents
// an interactive selector that resolves a chosen command plus a target
// group into a dispatch call.
//
// Two file grammars are accepted and auto-detected (see Parse): a
// structured markdown-heading grammar and a legacy table-row grammar.
// The file is re-parsed on every palette invocation; records are never
// cached between invocations.
package palette

import (
	"os"
	"strings"
)

// Record is one canned command: a key, a display label, and a prompt
// body. The prompt is stored newline-encoded (literal "\n" escapes) so it
// survives single-line transports; Body decodes it.
type Record struct {
	Key    string
	Label  string
	Prompt string
}

// Body returns the prompt with escape sequences decoded to literal
// newlines.
func (r Record) Body() string {
	return DecodeNewlines(r.Prompt)
}

// EncodeNewlines escapes backslashes and newlines so multi-line text can
// travel on a single line.
func EncodeNewlines(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// DecodeNewlines reverses EncodeNewlines.
func DecodeNewlines(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Load reads and parses the palette file at path.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse auto-detects the file grammar and parses it. Detection peeks at
// the first few non-blank lines: a leading table-row marker selects the
// legacy grammar, anything else the structured-heading grammar. Detection
// stays a thin dispatcher — each grammar has its own parser.
func Parse(input string) []Record {
	if isLegacy(input) {
		return parseLegacy(input)
	}
	return parseHeadings(input)
}

// isLegacy reports whether the input uses the legacy table-row grammar.
func isLegacy(input string) bool {
	seen := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "|") {
			return true
		}
		seen++
		if seen >= 3 {
			break
		}
	}
	return false
}

// parseHeadings parses the structured-heading grammar:
//
//	# Category            resets accumulation (flushing any pending record)
//	## key | label        starts a new record; "| label" is optional
//	<body lines>          appended to the record, blank interior lines kept
//
// Leading blank lines before the first body line are skipped. A record is
// only emitted if its body is non-empty; the final pending record is
// flushed at end of input.
func parseHeadings(input string) []Record {
	var records []Record
	var current *Record
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		// Trim trailing blank lines so a blank line before the next
		// heading does not become part of the prompt.
		for len(body) > 0 && body[len(body)-1] == "" {
			body = body[:len(body)-1]
		}
		if len(body) > 0 {
			current.Prompt = EncodeNewlines(strings.Join(body, "\n"))
			records = append(records, *current)
		}
		current = nil
		body = nil
	}

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "##"):
			flush()
			heading := strings.TrimSpace(strings.TrimPrefix(trimmed, "##"))
			key, label := heading, heading
			if idx := strings.Index(heading, "|"); idx >= 0 {
				key = strings.TrimSpace(heading[:idx])
				label = strings.TrimSpace(heading[idx+1:])
			}
			if key == "" {
				continue
			}
			if label == "" {
				label = key
			}
			current = &Record{Key: key, Label: label}

		case strings.HasPrefix(trimmed, "#"):
			flush()

		case current != nil:
			if trimmed == "" && len(body) == 0 {
				continue // leading blanks before the first body line
			}
			if trimmed == "" {
				body = append(body, "")
			} else {
				body = append(body, line)
			}
		}
	}
	flush()
	return records
}

// parseLegacy parses the legacy table-row grammar: every line beginning
// with '|' is a row; the header row (sentinel word "command" in its key
// cell) and dash-separator rows are skipped; remaining rows split into a
// key and a prompt, both trimmed, with the key reused as the label.
func parseLegacy(input string) []Record {
	var records []Record
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		row := strings.Trim(trimmed, "|")
		if isSeparatorRow(row) {
			continue
		}
		parts := strings.SplitN(row, "|", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		prompt := strings.TrimSpace(parts[1])
		if key == "" || prompt == "" {
			continue
		}
		if strings.EqualFold(key, "command") {
			continue // header row
		}
		records = append(records, Record{Key: key, Label: key, Prompt: EncodeNewlines(prompt)})
	}
	return records
}

// isSeparatorRow reports whether a row (already stripped of outer pipes)
// consists only of dashes, colons, pipes and whitespace.
func isSeparatorRow(row string) bool {
	hasDash := false
	for _, r := range row {
		switch r {
		case '-':
			hasDash = true
		case ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return hasDash
}
