package headers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/giantswarm/authsession/internal/config"
)

// GetURL resolves path against the base URL. Paths starting with "/" or
// "http" are returned unchanged. Otherwise the base URL is the one set with
// SetBaseURL, else http.baseUrl, and the two are joined with exactly one
// "/". Without a base URL the path is returned as is.
func (m *Manager) GetURL(path string) string {
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "http") {
		return path
	}

	base := m.BaseURL()
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + path
}

// BaseURL returns the effective base URL.
func (m *Manager) BaseURL() string {
	m.urlMu.RLock()
	defer m.urlMu.RUnlock()
	return config.Resolve(m.baseURL, m.cfg.HTTP.BaseURL)
}

// SetBaseURL overrides http.baseUrl for this manager. An empty value
// restores the configured one.
func (m *Manager) SetBaseURL(base string) {
	m.urlMu.Lock()
	m.baseURL = base
	m.urlMu.Unlock()
}

// BuildQuery converts params into query values. Keys whose value is falsy
// (nil, "", numeric zero, false, NaN) are omitted. Slices add one value per
// element.
func BuildQuery(params map[string]any) url.Values {
	q := url.Values{}
	for key, value := range params {
		if !config.Truthy(value) {
			continue
		}
		switch v := value.(type) {
		case []string:
			for _, s := range v {
				q.Add(key, s)
			}
		case []any:
			for _, item := range v {
				q.Add(key, fmt.Sprint(item))
			}
		default:
			q.Set(key, fmt.Sprint(v))
		}
	}
	return q
}

// BuildQuery is the method form of the package-level BuildQuery.
func (m *Manager) BuildQuery(params map[string]any) url.Values {
	return BuildQuery(params)
}
