package report

import "strings"

// Fragment markers in a query skeleton. A fragment
//
//	{{#gradeLevel}}  AND s.grade_level = ?{{/gradeLevel}}
//
// is spliced verbatim, with the guard parameter's value appended to the
// bound list once per '?' inside, iff the guard parameter is present and
// non-empty. Otherwise the fragment and its markers are removed and no
// value is bound. Fragments do not nest.
//
// The parameter *value* never enters the query text: only the fragment's
// presence is data-driven, the value always travels through the bound list.
const (
	fragmentOpen  = "{{#"
	fragmentClose = "{{/"
	markerEnd     = "}}"
)

// Assemble expands skeleton into a concrete parameterized query plus the
// ordered bound values. Bound order follows fragment order in the skeleton,
// not declaration order.
func Assemble(skeleton string, params map[string]any) (string, []any) {
	var (
		out   strings.Builder
		bound []any
	)

	rest := skeleton
	for {
		open := strings.Index(rest, fragmentOpen)
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		rest = rest[open:]

		nameEnd := strings.Index(rest, markerEnd)
		if nameEnd < 0 {
			// Unterminated marker: emit verbatim so the fault surfaces
			// at the data store instead of being silently swallowed.
			out.WriteString(rest)
			break
		}
		name := rest[len(fragmentOpen):nameEnd]
		body := rest[nameEnd+len(markerEnd):]

		closer := fragmentClose + name + markerEnd
		closeAt := strings.Index(body, closer)
		if closeAt < 0 {
			out.WriteString(rest)
			break
		}

		fragment := body[:closeAt]
		rest = body[closeAt+len(closer):]

		value, present := params[name]
		if !present || isEmpty(value) {
			continue
		}
		out.WriteString(fragment)
		for i := 0; i < strings.Count(fragment, "?"); i++ {
			bound = append(bound, value)
		}
	}

	return cleanup(out.String()), bound
}

// cleanup drops blank lines left by elided fragments and removes a dangling
// always-true filter ("WHERE 1=1") when no fragment extended it, so the
// query stays valid with zero, one or many fragments included.
func cleanup(query string) string {
	var lines []string
	for _, line := range strings.Split(query, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasSuffix(strings.ToUpper(trimmed), "WHERE 1=1") {
			continue
		}
		next := ""
		if i+1 < len(lines) {
			next = strings.ToUpper(strings.TrimSpace(lines[i+1]))
		}
		if strings.HasPrefix(next, "AND ") || strings.HasPrefix(next, "AND\t") {
			continue
		}
		// Nothing follows the placeholder clause: strip it.
		idx := strings.LastIndex(strings.ToUpper(line), "WHERE 1=1")
		prefix := strings.TrimRight(line[:idx], " \t")
		if strings.TrimSpace(prefix) == "" {
			lines = append(lines[:i], lines[i+1:]...)
		} else {
			lines[i] = prefix
		}
		break
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
