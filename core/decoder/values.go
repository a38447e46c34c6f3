package decoder

import "slices"

// Values maps a field name to every value received for it, in arrival order.
type Values map[string][]string

// Add appends value to the values of name.
func (v Values) Add(name, value string) {
	v[name] = append(v[name], value)
}

// Get returns the first value of name, or "" if the field is absent.
func (v Values) Get(name string) string {
	if vs := v[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// All returns every value of name.
func (v Values) All(name string) []string {
	return v[name]
}

// Has reports whether the field was received at all.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Names returns the field names in sorted order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Clone returns a deep copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for name, vs := range v {
		out[name] = slices.Clone(vs)
	}
	return out
}
