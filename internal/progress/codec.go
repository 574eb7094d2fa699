// Package progress persists resumable wizard snapshots through the flat
// key-value collaborator, so closing the app mid-flow resumes rather than
// restarts.
//
// Structured per-item maps are flattened to one "<id>:<value>" entry per
// line. Backslash, colon, and newline are escaped so that ids and free-text
// values containing the delimiter round-trip exactly.
package progress

import (
	"fmt"
	"sort"
	"strings"
)

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ':':
			b.WriteString(`\:`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\\':
			b.WriteRune('\\')
		case ':':
			b.WriteRune(':')
		case 'n':
			b.WriteRune('\n')
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", r)
		}
		escaped = false
	}
	if escaped {
		return "", fmt.Errorf("dangling escape character")
	}
	return b.String(), nil
}

// splitEntry cuts an encoded entry at its first unescaped colon.
func splitEntry(entry string) (id, value string, err error) {
	escaped := false
	for i, r := range entry {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case ':':
			id, err = unescape(entry[:i])
			if err != nil {
				return "", "", err
			}
			value, err = unescape(entry[i+1:])
			return id, value, err
		}
	}
	return "", "", fmt.Errorf("entry %q has no delimiter", entry)
}

// encodeMap flattens id->value pairs, one escaped entry per line, sorted by
// id for deterministic output.
func encodeMap(m map[string]string) string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, escape(id)+":"+escape(m[id]))
	}
	return strings.Join(entries, "\n")
}

func decodeMap(s string) (map[string]string, error) {
	m := make(map[string]string)
	if s == "" {
		return m, nil
	}
	for _, entry := range splitEntries(s) {
		id, value, err := splitEntry(entry)
		if err != nil {
			return nil, err
		}
		m[id] = value
	}
	return m, nil
}

// splitEntries splits encoded text on unescaped newlines.
func splitEntries(s string) []string {
	var entries []string
	var start int
	escaped := false
	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '\n':
			entries = append(entries, s[start:i])
			start = i + 1
		}
	}
	return append(entries, s[start:])
}

// encodeSet flattens a set of ids, one escaped id per line.
func encodeSet(set map[string]bool) string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for i, id := range ids {
		ids[i] = escape(id)
	}
	return strings.Join(ids, "\n")
}

func decodeSet(s string) (map[string]bool, error) {
	set := make(map[string]bool)
	if s == "" {
		return set, nil
	}
	for _, entry := range splitEntries(s) {
		id, err := unescape(entry)
		if err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, nil
}
