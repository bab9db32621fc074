package gateway

import (
	"net/url"
	"strings"
)

// Params is an ordered set of request parameters. Encode emits them in
// insertion order, which the signature depends on, so url.Values (sorted)
// cannot be used here.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams creates an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set adds a parameter, or replaces the value in place if the name is
// already present.
func (p *Params) Set(key, value string) *Params {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value for key and whether it was set.
func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the parameter names in insertion order.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return len(p.keys)
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	c := NewParams()
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}

// Encode serializes the parameters as application/x-www-form-urlencoded
// content: key=value pairs joined by "&", no trailing separator.
func (p *Params) Encode() string {
	var sb strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(formEscape(k))
		sb.WriteByte('=')
		sb.WriteString(formEscape(p.values[k]))
	}
	return sb.String()
}

// formEscape is url.QueryEscape with "~" also escaped, matching RFC 1738
// form encoding on the server side.
func formEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "~", "%7E")
}
