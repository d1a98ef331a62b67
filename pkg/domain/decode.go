package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Decode turns an externally supplied payload into a Script.
//
// Accepted shapes:
//   - the positional tuple []any{choices, options, text} (or [3]any);
//   - a named map with the keys "choices", "options" and "text";
//   - Payload or *Payload.
//
// choices may be any integral number. options and text are sequences of string-like
// values. A mismatch between the three never produces a partial Script: the error
// wraps ErrMalformedPayload.
func Decode(payload any) (*Script, error) {
	switch p := payload.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	case Payload:
		return decodeParts(p.Choices, p.Options, p.Text)
	case *Payload:
		if p == nil {
			return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
		}
		return decodeParts(p.Choices, p.Options, p.Text)
	case []any:
		return decodeTuple(p)
	case [3]any:
		return decodeTuple(p[:])
	case map[string]any, map[any]any:
		return decodeNamed(p)
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrMalformedPayload, payload)
	}
}

func decodeTuple(tuple []any) (*Script, error) {
	if len(tuple) != 3 {
		return nil, fmt.Errorf("%w: expected 3 elements, got %d", ErrMalformedPayload, len(tuple))
	}
	return decodeRaw(tuple[0], tuple[1], tuple[2])
}

// namedPayload keeps every field loosely typed so that counts are checked by toCount
// instead of being truncated by the weak decoder.
type namedPayload struct {
	Choices any `mapstructure:"choices"`
	Options any `mapstructure:"options"`
	Text    any `mapstructure:"text"`
}

func decodeNamed(raw any) (*Script, error) {
	var named namedPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &named,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if named.Choices == nil {
		named.Choices = 0
	}
	return decodeRaw(named.Choices, named.Options, named.Text)
}

func decodeRaw(rawChoices, rawOptions, rawText any) (*Script, error) {
	choices, err := toCount(rawChoices)
	if err != nil {
		return nil, err
	}
	options, err := toStrings(rawOptions, "options")
	if err != nil {
		return nil, err
	}
	text, err := toStrings(rawText, "text")
	if err != nil {
		return nil, err
	}
	return decodeParts(choices, options, text)
}

func decodeParts(choices int, options, text []string) (*Script, error) {
	if err := validateShape(choices, options, text); err != nil {
		return nil, err
	}
	return &Script{
		Blocks: append([]string(nil), text...),
		Labels: append([]string(nil), options...),
	}, nil
}

func toCount(v any) (int, error) {
	var n int64
	switch c := v.(type) {
	case int:
		n = int64(c)
	case int8:
		n = int64(c)
	case int16:
		n = int64(c)
	case int32:
		n = int64(c)
	case int64:
		n = c
	case uint:
		n = int64(c)
	case uint8:
		n = int64(c)
	case uint16:
		n = int64(c)
	case uint32:
		n = int64(c)
	case uint64:
		if c > math.MaxInt32 {
			return 0, fmt.Errorf("%w: choice count %d too large", ErrMalformedPayload, c)
		}
		n = int64(c)
	case float32:
		return floatCount(float64(c))
	case float64:
		return floatCount(c)
	case json.Number:
		i, err := c.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: choice count %q is not an integer", ErrMalformedPayload, c.String())
		}
		n = i
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return 0, fmt.Errorf("%w: choice count %q is not an integer", ErrMalformedPayload, c)
		}
		n = int64(i)
	default:
		return 0, fmt.Errorf("%w: choice count has type %T", ErrMalformedPayload, v)
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: choice count %d out of range", ErrMalformedPayload, n)
	}
	return int(n), nil
}

func floatCount(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: choice count %v is not an integer", ErrMalformedPayload, f)
	}
	return toCount(int64(f))
}

func toStrings(v any, field string) ([]string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), s...), nil
	case []any:
		out := make([]string, 0, len(s))
		for i, elem := range s {
			str, err := toString(elem)
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", ErrMalformedPayload, field, i, err)
			}
			out = append(out, str)
		}
		return out, nil
	}

	kind := reflect.ValueOf(v).Kind()
	if kind != reflect.Slice && kind != reflect.Array {
		return nil, fmt.Errorf("%w: %s must be a sequence, got %T", ErrMalformedPayload, field, v)
	}
	var out []string
	if err := mapstructure.WeakDecode(v, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, field, err)
	}
	return out, nil
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	case nil:
		return "", fmt.Errorf("nil element")
	}
	var out string
	if err := mapstructure.WeakDecode(v, &out); err != nil {
		return "", err
	}
	return out, nil
}
