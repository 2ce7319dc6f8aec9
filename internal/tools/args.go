package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
)

// Args are the decoded arguments of one tool call. Values come from JSON
// (numbers as float64), from YAML, or as strings from the shell; the
// accessors convert between them.
type Args map[string]any

// Has reports whether key is present and not null.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

func invalid(key, want string, v any) error {
	return errinfo.InvalidArgument("arguments", "%s must be %s, got %v", key, want, v)
}

func missing(key string) error {
	return errinfo.InvalidArgument("arguments", "%s is required", key)
}

// String returns a required string argument.
func (a Args) String(key string) (string, error) {
	if !a.Has(key) {
		return "", missing(key)
	}
	switch v := a[key].(type) {
	case string:
		return v, nil
	case float64, int, int64, bool:
		return fmt.Sprint(v), nil
	}
	return "", invalid(key, "a string", a[key])
}

// OptString returns a string argument or def.
func (a Args) OptString(key, def string) string {
	if !a.Has(key) {
		return def
	}
	s, err := a.String(key)
	if err != nil {
		return def
	}
	return s
}

// Float returns a required number argument.
func (a Args) Float(key string) (float64, error) {
	if !a.Has(key) {
		return 0, missing(key)
	}
	switch v := a[key].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, invalid(key, "a number", v)
		}
		return f, nil
	}
	return 0, invalid(key, "a number", a[key])
}

// OptFloat returns a number argument, or def when absent.
func (a Args) OptFloat(key string, def float64) (float64, error) {
	if !a.Has(key) {
		return def, nil
	}
	return a.Float(key)
}

// FloatPtr returns a number argument, or nil when absent.
func (a Args) FloatPtr(key string) (*float64, error) {
	if !a.Has(key) {
		return nil, nil
	}
	f, err := a.Float(key)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Int returns a required whole-number argument.
func (a Args) Int(key string) (int, error) {
	f, err := a.Float(key)
	if err != nil {
		if a.Has(key) {
			return 0, invalid(key, "an integer", a[key])
		}
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, invalid(key, "an integer", a[key])
	}
	return int(f), nil
}

// OptInt returns a whole-number argument, or def when absent.
func (a Args) OptInt(key string, def int) (int, error) {
	if !a.Has(key) {
		return def, nil
	}
	return a.Int(key)
}

// Bool returns a boolean argument, or def when absent.
func (a Args) Bool(key string, def bool) (bool, error) {
	if !a.Has(key) {
		return def, nil
	}
	switch v := a[key].(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, invalid(key, "true or false", v)
		}
		return b, nil
	}
	return false, invalid(key, "true or false", a[key])
}

// BoolPtr returns a boolean argument, or nil when absent.
func (a Args) BoolPtr(key string) (*bool, error) {
	if !a.Has(key) {
		return nil, nil
	}
	b, err := a.Bool(key, false)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Raw returns the argument as JSON. A string argument is taken to be JSON
// text already, which is how agents pass tables and chart data.
func (a Args) Raw(key string) ([]byte, error) {
	if !a.Has(key) {
		return nil, missing(key)
	}
	if s, ok := a[key].(string); ok {
		return []byte(s), nil
	}
	data, err := json.Marshal(a[key])
	if err != nil {
		return nil, invalid(key, "JSON", a[key])
	}
	return data, nil
}

// JSON decodes the argument into v.
func (a Args) JSON(key string, v any) error {
	data, err := a.Raw(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errinfo.InvalidArgument("arguments", "Invalid JSON format for %s: %v", key, err)
	}
	return nil
}

// orderedObject decodes a JSON object of key -> value keeping key order.
func orderedObject(data []byte, each func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if err := each(key, dec); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
