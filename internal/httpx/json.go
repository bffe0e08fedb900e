package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

var null = []byte("null")

// encodeBody accepts raw JSON as json.RawMessage or []byte and marshals
// anything else.
func encodeBody(v any) (io.Reader, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		buf, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(buf), nil
	}
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, null)
}

// List normalizes the shapes list endpoints answer with (a bare array, or an
// array under "items" or "data") into one ordered sequence. null and any
// other shape give an empty sequence.
func List(raw json.RawMessage) ([]json.RawMessage, error) {
	if isNull(raw) {
		return []json.RawMessage{}, nil
	}

	t := bytes.TrimSpace(raw)
	switch t[0] {
	case '[':
		var out []json.RawMessage
		if err := json.Unmarshal(t, &out); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return out, nil
	case '{':
		var env map[string]json.RawMessage
		if err := json.Unmarshal(t, &env); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		for _, key := range []string{"items", "data"} {
			v, ok := env[key]
			if !ok || isNull(v) {
				continue
			}
			if inner := bytes.TrimSpace(v); inner[0] == '[' {
				return List(inner)
			}
		}
	}
	return []json.RawMessage{}, nil
}

// DecodeList runs raw through List and decodes every element into T.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	items, err := List(raw)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrDecode, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
