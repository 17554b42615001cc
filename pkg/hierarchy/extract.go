package hierarchy

import (
	"html"
	"strings"

	"github.com/devicelab-dev/screenmatch/pkg/core"
)

// Attribute names read from dump nodes.
const (
	attrText        = "text"
	attrContentDesc = "content-desc"
	attrClass       = "class"
	attrBounds      = "bounds"
	attrClickable   = "clickable"
)

// genericNodeTag is the tag used by uiautomator "node" style dumps; other
// dumps use the widget class name as the tag.
const genericNodeTag = "node"

// Extract returns the matchable elements of dump in document order.
// Nodes without usable bounds, with zero area, or with neither text nor
// content-desc are left out. Extract never fails; a dump with no nodes
// yields an empty slice.
func Extract(dump string) []Element {
	elems, _ := Inspect(dump)
	return elems
}

// Inspect is Extract that also reports core.ErrMalformedDump when the input
// contains no attribute-bearing node markup at all.
func Inspect(dump string) ([]Element, error) {
	var elems []Element
	nodes := 0

	scanFragments(dump, func(tag string, attrs map[string]string) {
		nodes++
		elem, ok := toElement(tag, attrs)
		if !ok {
			return
		}
		elems = append(elems, elem)
	})

	if nodes == 0 {
		return nil, core.ErrMalformedDump.WithDetails(map[string]interface{}{
			"bytes": len(dump),
		})
	}
	return elems, nil
}

func toElement(tag string, attrs map[string]string) (Element, bool) {
	raw, ok := attrs[attrBounds]
	if !ok {
		return Element{}, false
	}
	bounds, ok := ParseBounds(raw)
	if !ok || bounds.Empty() {
		return Element{}, false
	}

	elem := Element{
		Text:        attrs[attrText],
		Description: attrs[attrContentDesc],
		ClassName:   attrs[attrClass],
		Bounds:      bounds,
		Clickable:   attrs[attrClickable] == "true",
	}
	if elem.ClassName == "" && tag != genericNodeTag {
		elem.ClassName = tag
	}

	if elem.Text == "" && elem.Description == "" {
		return Element{}, false
	}
	return elem, true
}

// scanFragments calls fn for every start tag in s that carries at least one
// attribute. A truncated fragment is skipped and scanning resumes at the
// next '<'.
func scanFragments(s string, fn func(tag string, attrs map[string]string)) {
	i := 0
	for {
		start := strings.IndexByte(s[i:], '<')
		if start < 0 {
			return
		}
		start += i

		end, ok := fragmentEnd(s, start+1)
		if !ok {
			if end >= len(s) {
				return
			}
			i = end
			continue
		}
		i = end + 1

		body := s[start+1 : end]
		if body == "" || body[0] == '/' || body[0] == '?' || body[0] == '!' {
			continue
		}
		tag, attrs := parseFragment(body)
		if len(attrs) == 0 {
			continue
		}
		fn(tag, attrs)
	}
}

// fragmentEnd finds the '>' closing the fragment that starts at from.
// Quoted values may contain '>', but never '<'; meeting '<' means the
// fragment is truncated and the returned index is where the next one starts.
func fragmentEnd(s string, from int) (int, bool) {
	var quote byte
	for j := from; j < len(s); j++ {
		c := s[j]
		switch {
		case c == '<':
			return j, false
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return j, true
		}
	}
	return len(s), false
}

// parseFragment splits `tag k="v" k2='v2' /` into the tag and its attributes.
// Attributes are read independently: a bare name or an unquoted value is
// skipped and scanning resumes after it. An unterminated quote ends the scan
// with whatever was read before it. The first occurrence of a repeated
// attribute wins.
func parseFragment(body string) (string, map[string]string) {
	body = strings.TrimSuffix(strings.TrimSpace(body), "/")

	n := strings.IndexFunc(body, isSpace)
	if n < 0 {
		return body, nil
	}
	tag := body[:n]
	rest := body[n:]

	attrs := make(map[string]string)
	for {
		rest = strings.TrimLeftFunc(rest, isSpace)
		if rest == "" {
			return tag, attrs
		}

		if rest[0] == '"' || rest[0] == '\'' {
			// stray quoted text, skip past it
			closeAt := strings.IndexByte(rest[1:], rest[0])
			if closeAt < 0 {
				return tag, attrs
			}
			rest = rest[closeAt+2:]
			continue
		}

		end := strings.IndexFunc(rest, func(r rune) bool { return r == '=' || isSpace(r) })
		if end < 0 {
			return tag, attrs
		}
		if end == 0 {
			rest = rest[1:]
			continue
		}
		name := rest[:end]

		rest = strings.TrimLeftFunc(rest[end:], isSpace)
		if rest == "" || rest[0] != '=' {
			// bare attribute
			continue
		}

		rest = strings.TrimLeftFunc(rest[1:], isSpace)
		if rest == "" {
			return tag, attrs
		}
		if rest[0] != '"' && rest[0] != '\'' {
			if ws := strings.IndexFunc(rest, isSpace); ws >= 0 {
				rest = rest[ws:]
			} else {
				rest = ""
			}
			continue
		}
		q := rest[0]
		closeAt := strings.IndexByte(rest[1:], q)
		if closeAt < 0 {
			return tag, attrs
		}
		value := rest[1 : closeAt+1]
		rest = rest[closeAt+2:]

		if _, seen := attrs[name]; !seen {
			attrs[name] = html.UnescapeString(value)
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
