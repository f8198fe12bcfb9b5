package dom

import "strings"

type declaration struct {
	property string
	value    string
}

// declarations is an ordered inline style attribute.
type declarations []declaration

func parseStyle(s string) declarations {
	var out declarations
	for _, part := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, declaration{property: prop, value: strings.TrimSpace(val)})
	}
	return out
}

func (ds declarations) get(property string) (string, bool) {
	property = strings.ToLower(property)
	for i := len(ds) - 1; i >= 0; i-- {
		if ds[i].property == property {
			return ds[i].value, true
		}
	}
	return "", false
}

func (ds declarations) set(property, value string) declarations {
	property = strings.ToLower(property)
	for i := range ds {
		if ds[i].property == property {
			ds[i].value = value
			return ds
		}
	}
	return append(ds, declaration{property: property, value: value})
}

func (ds declarations) String() string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.property + ": " + d.value
	}
	return strings.Join(parts, "; ")
}
