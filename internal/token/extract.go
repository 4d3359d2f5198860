package token

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/oauth2"
)

// rawBodier is implemented by response types that keep their undecoded body.
type rawBodier interface {
	RawBody() []byte
}

// Read extracts the token from v.
//
// A string is taken as the token itself. Structured values are read at path,
// which may be dotted ("data.token"):
//   - *oauth2.Token: the extra field at path when present, else AccessToken
//   - []byte, json.RawMessage and values with RawBody() []byte: JSON documents
//   - map[string]any: walked key by key
//   - anything else is JSON-encoded and read as a document
func Read(v any, path string) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", ErrTokenNotInResponse
	case string:
		return t, nil
	case Redacted:
		return t.Value(), nil
	case *oauth2.Token:
		if t == nil {
			return "", ErrTokenNotInResponse
		}
		if path != "" {
			if extra, ok := t.Extra(path).(string); ok && extra != "" {
				return extra, nil
			}
		}
		return t.AccessToken, nil
	case []byte:
		return readJSON(t, path)
	case json.RawMessage:
		return readJSON(t, path)
	case rawBodier:
		return readJSON(t.RawBody(), path)
	case map[string]any:
		return readMap(t, path)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %T for token lookup: %w", v, err)
	}
	return readJSON(data, path)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func readJSON(data []byte, path string) (string, error) {
	keys := splitPath(path)
	if len(keys) == 0 {
		return "", ErrTokenNotInResponse
	}

	value, dataType, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		if err == jsonparser.KeyPathNotFoundError {
			return "", fmt.Errorf("%w at %q", ErrTokenNotInResponse, path)
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", fmt.Errorf("failed to decode token string: %w", err)
		}
		return s, nil
	case jsonparser.Number:
		return string(value), nil
	default:
		return "", fmt.Errorf("%w: value at %q is %s", ErrTokenNotInResponse, path, dataType)
	}
}

func readMap(m map[string]any, path string) (string, error) {
	keys := splitPath(path)
	if len(keys) == 0 {
		return "", ErrTokenNotInResponse
	}

	var current any = m
	for _, key := range keys {
		obj, ok := current.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w at %q", ErrTokenNotInResponse, path)
		}
		if current, ok = obj[key]; !ok {
			return "", fmt.Errorf("%w at %q", ErrTokenNotInResponse, path)
		}
	}

	switch t := current.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64, int, int64:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("%w: value at %q is %T", ErrTokenNotInResponse, path, current)
	}
}
