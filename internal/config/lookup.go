package config

import (
	"math"
	"reflect"
	"slices"
)

// lookups maps every dotted configuration key to its typed field.
var lookups = map[string]func(c *Config) any{
	"http.baseUrl":  func(c *Config) any { return c.HTTP.BaseURL },
	"http.headers":  func(c *Config) any { return copyHeaders(c.HTTP.Headers) },
	"http.timeout":  func(c *Config) any { return c.HTTP.Timeout },
	"http.retryMax": func(c *Config) any { return c.HTTP.RetryMax },

	"token.readAs":  func(c *Config) any { return c.Token.ReadAs },
	"token.storeAs": func(c *Config) any { return c.Token.StoreAs },
	"token.scheme":  func(c *Config) any { return c.Token.Scheme },

	"authentication.endpoints.login":          func(c *Config) any { return c.Authentication.Endpoints.Login },
	"authentication.endpoints.register":       func(c *Config) any { return c.Authentication.Endpoints.Register },
	"authentication.endpoints.check":          func(c *Config) any { return c.Authentication.Endpoints.Check },
	"authentication.endpoints.getUser":        func(c *Config) any { return c.Authentication.Endpoints.GetUser },
	"authentication.endpoints.forgotPassword": func(c *Config) any { return c.Authentication.Endpoints.ForgotPassword },

	"storage.driver": func(c *Config) any { return c.Storage.Driver },
	"storage.dir":    func(c *Config) any { return c.Storage.Dir },

	"log.level": func(c *Config) any { return c.Log.Level },
}

// Keys returns every key Lookup knows, sorted.
func Keys() []string {
	keys := make([]string, 0, len(lookups))
	for k := range lookups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// IsKey reports whether key is a known configuration key.
func IsKey(key string) bool {
	_, ok := lookups[key]
	return ok
}

// Lookup returns override when it is truthy, otherwise the value configured
// for the dotted key. Unknown keys and unset values yield nil.
func (c *Config) Lookup(key string, override any) any {
	if Truthy(override) {
		return override
	}
	if c == nil {
		return nil
	}

	get, ok := lookups[key]
	if !ok {
		return nil
	}
	v := get(c)
	if !Truthy(v) {
		return nil
	}
	return v
}

// Resolve returns override unless it is empty, in which case configured.
func Resolve(override, configured string) string {
	if override != "" {
		return override
	}
	return configured
}

// Truthy reports whether v counts as set. nil (including nil maps, slices
// and pointers), empty strings, numeric zero, NaN and false are not.
// Empty but non-nil maps and slices are.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

func copyHeaders(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
