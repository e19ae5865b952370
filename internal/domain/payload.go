package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Payload is a decoded JSON request body keyed by field name. Values stay raw
// until an entity overlays them, so a type mismatch on one key never hides
// problems with the others.
type Payload map[string]json.RawMessage

// ParsePayload decodes a JSON object. An empty body is an empty payload.
func ParsePayload(body []byte) (Payload, error) {
	p := Payload{}
	if len(bytes.TrimSpace(body)) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// Label turns a payload key into the words used in messages:
// "email_address" -> "email address".
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || string(t) == "null"
}

// overlay copies the keys present in a payload onto typed fields, collecting
// one message per key whose value has the wrong JSON type.
type overlay struct {
	p      Payload
	prefix string
	errs   FieldErrors
}

func newOverlay(p Payload, errs FieldErrors) *overlay {
	return &overlay{p: p, errs: errs}
}

func (o *overlay) nested(key string, p Payload) *overlay {
	return &overlay{p: p, prefix: o.name(key) + ".", errs: o.errs}
}

func (o *overlay) name(key string) string { return o.prefix + key }

func (o *overlay) fail(key, format string) {
	o.errs.Add(o.name(key), fmt.Sprintf(format, Label(o.name(key))))
}

func (o *overlay) str(key string, dst *string) {
	raw, ok := o.p[key]
	if !ok {
		return
	}
	if isNull(raw) {
		*dst = ""
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		o.fail(key, "The %s must be a string.")
		return
	}
	*dst = s
}

func (o *overlay) nullableStr(key string, dst **string) {
	raw, ok := o.p[key]
	if !ok {
		return
	}
	if isNull(raw) {
		*dst = nil
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		o.fail(key, "The %s must be a string.")
		return
	}
	*dst = &s
}

func (o *overlay) boolean(key string, dst **bool) {
	raw, ok := o.p[key]
	if !ok {
		return
	}
	if isNull(raw) {
		*dst = nil
		return
	}
	b, ok := parseBool(raw)
	if !ok {
		o.fail(key, "The %s field must be true or false.")
		return
	}
	*dst = &b
}

func (o *overlay) number(key string, dst **float64) {
	raw, ok := o.p[key]
	if !ok {
		return
	}
	if isNull(raw) {
		*dst = nil
		return
	}
	f, ok := parseNumber(raw)
	if !ok {
		o.fail(key, "The %s must be a number.")
		return
	}
	*dst = &f
}

func (o *overlay) object(key string, dst *map[string]any) {
	raw, ok := o.p[key]
	if !ok {
		return
	}
	if isNull(raw) {
		*dst = nil
		return
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		o.fail(key, "The %s must be an object.")
		return
	}
	*dst = m
}

// sub returns the nested payload under key. present is false when the key is
// absent; p is nil when the value is null or not an object.
func (o *overlay) sub(key string) (p Payload, present bool) {
	raw, ok := o.p[key]
	if !ok {
		return nil, false
	}
	if isNull(raw) {
		return nil, true
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		o.fail(key, "The %s must be an object.")
		return nil, true
	}
	return p, true
}

// items returns the elements of the list under key, with the same present/nil
// convention as sub.
func (o *overlay) items(key string) (items []json.RawMessage, present bool) {
	raw, ok := o.p[key]
	if !ok {
		return nil, false
	}
	if isNull(raw) {
		return nil, true
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		o.fail(key, "The %s must be a list.")
		return nil, true
	}
	return items, true
}

func (o *overlay) strings(key string, dst *[]string) {
	items, present := o.items(key)
	if !present {
		return
	}
	if items == nil {
		*dst = nil
		return
	}
	out := make([]string, 0, len(items))
	for i, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			o.fail(fmt.Sprintf("%s.%d", key, i), "The %s must be a string.")
			return
		}
		out = append(out, s)
	}
	*dst = out
}

func parseBool(raw json.RawMessage) (bool, bool) {
	switch string(bytes.TrimSpace(raw)) {
	case "true", "1", `"1"`:
		return true, true
	case "false", "0", `"0"`:
		return false, true
	}
	return false, false
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
