package token

// Redacted wraps a token string to prevent accidental logging.
//
// String, GoString, MarshalText and MarshalJSON all return "[REDACTED]";
// only Value reveals the token.
//
//	t := token.NewRedacted("secret-token-value")
//	fmt.Println(t)       // prints: [REDACTED]
//	actual := t.Value()  // returns: "secret-token-value"
type Redacted struct {
	value string
}

// NewRedacted creates a new Redacted wrapping the given value.
func NewRedacted(value string) Redacted {
	return Redacted{value: value}
}

// Value returns the actual token value. Never log the result of this method.
func (t Redacted) Value() string {
	return t.value
}

// String implements fmt.Stringer.
func (t Redacted) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (t Redacted) GoString() string {
	return "token.Redacted{[REDACTED]}"
}

// IsEmpty returns true if the token value is empty.
func (t Redacted) IsEmpty() bool {
	return t.value == ""
}

// MarshalText implements encoding.TextMarshaler.
func (t Redacted) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// MarshalJSON implements json.Marshaler.
func (t Redacted) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}
