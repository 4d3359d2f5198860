package headers

import (
	"net/http"
	"sort"
	"strings"
)

// AuthorizationHeader is the canonical name of the credential header.
const AuthorizationHeader = "Authorization"

// HeaderSet is one immutable version of the outgoing headers.
// Names are stored in canonical MIME form.
type HeaderSet struct {
	version uint64
	values  map[string]string
}

func newHeaderSet(version uint64, values map[string]string) *HeaderSet {
	return &HeaderSet{version: version, values: values}
}

// Version increases by one with every completed rebuild. The initial set,
// built from static headers only, is version 0.
func (h *HeaderSet) Version() uint64 {
	if h == nil {
		return 0
	}
	return h.version
}

// Get returns the value of name, or "" when absent.
func (h *HeaderSet) Get(name string) string {
	if h == nil {
		return ""
	}
	return h.values[http.CanonicalHeaderKey(name)]
}

// Lookup returns the value of name and whether it is present.
func (h *HeaderSet) Lookup(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	v, ok := h.values[http.CanonicalHeaderKey(name)]
	return v, ok
}

// Authorization returns the Authorization value and whether it is set.
func (h *HeaderSet) Authorization() (string, bool) {
	return h.Lookup(AuthorizationHeader)
}

// Len returns the number of headers.
func (h *HeaderSet) Len() int {
	if h == nil {
		return 0
	}
	return len(h.values)
}

// Names returns the header names, sorted.
func (h *HeaderSet) Names() []string {
	if h == nil {
		return nil
	}
	names := make([]string, 0, len(h.values))
	for name := range h.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the headers.
func (h *HeaderSet) Map() map[string]string {
	out := make(map[string]string, h.Len())
	if h == nil {
		return out
	}
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

// Apply sets every header on dst, replacing existing values.
func (h *HeaderSet) Apply(dst http.Header) {
	if h == nil {
		return
	}
	for k, v := range h.values {
		dst.Set(k, v)
	}
}

func (h *HeaderSet) String() string {
	var b strings.Builder
	for i, name := range h.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
	}
	return b.String()
}
