package node

import "strings"

// DefaultCategory is assigned to node types that declare no usable category.
const DefaultCategory = "Uncategorized"

// NormalizeCategory converts the loose category forms accepted from node
// authors into a canonical slash-joined path. Accepted inputs are a string
// (optionally already slash-delimited, optionally with an atom-like leading
// colon), a list of path segments, or nothing. Anything else normalizes to
// DefaultCategory.
func NormalizeCategory(v any) string {
	switch c := v.(type) {
	case string:
		return normalizeCategoryString(c)
	case []string:
		return joinSegments(c)
	case []any:
		segs := make([]string, 0, len(c))
		for _, s := range c {
			str, ok := s.(string)
			if !ok {
				return DefaultCategory
			}
			segs = append(segs, str)
		}
		return joinSegments(segs)
	case DataType:
		return normalizeCategoryString(string(c))
	}
	return DefaultCategory
}

func normalizeCategoryString(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ":"))
	if s == "" {
		return DefaultCategory
	}
	segs := strings.Split(s, "/")
	out := segs[:0]
	for _, seg := range segs {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return DefaultCategory
	}
	return strings.Join(out, "/")
}

func joinSegments(segs []string) string {
	trimmed := make([]string, 0, len(segs))
	for _, s := range segs {
		s = strings.TrimSpace(s)
		if s != "" {
			trimmed = append(trimmed, s)
		}
	}
	if len(trimmed) == 0 {
		return DefaultCategory
	}
	return strings.Join(trimmed, "/")
}
