package biz

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// RedactedValue replaces the value of every sensitive key.
const RedactedValue = "[REDACTED]"

// DefaultSensitiveFields are the keys redacted from audit payloads,
// compared case-insensitively.
var DefaultSensitiveFields = []string{"password", "token", "secret", "salt", "apiKey"}

// FieldChange is the before and after value of one differing key.
type FieldChange struct {
	Before interface{} `json:"before"`
	After  interface{} `json:"after"`
}

// AuditChanges is the decoded form of an audit payload.
type AuditChanges struct {
	Before   map[string]interface{} `json:"before,omitempty"`
	After    map[string]interface{} `json:"after,omitempty"`
	Diff     map[string]FieldChange `json:"diff,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// changesBody keeps an empty but present before/after in the encoded form;
// omitempty only drops nil interfaces.
type changesBody struct {
	Before   interface{} `json:"before,omitempty"`
	After    interface{} `json:"after,omitempty"`
	Diff     interface{} `json:"diff,omitempty"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// AuditCodec sanitizes, diffs and serializes entity snapshots. Snapshots are
// map[string]interface{} trees of nil, bool, numbers, strings, time.Time,
// slices and nested maps. The codec is read-only after construction.
type AuditCodec struct {
	sensitive map[string]struct{}
}

// NewAuditCodec creates a codec redacting the given keys.
func NewAuditCodec(sensitiveFields []string) *AuditCodec {
	set := make(map[string]struct{}, len(sensitiveFields))
	for _, f := range sensitiveFields {
		set[strings.ToLower(f)] = struct{}{}
	}
	return &AuditCodec{sensitive: set}
}

// NewDefaultAuditCodec creates a codec redacting DefaultSensitiveFields.
func NewDefaultAuditCodec() *AuditCodec {
	return NewAuditCodec(DefaultSensitiveFields)
}

// Sanitize returns a deep copy of v with sensitive map keys redacted.
func (c *AuditCodec) Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		return c.SanitizeMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = c.Sanitize(item)
		}
		return out
	case []string:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case *time.Time:
		if val == nil {
			return nil
		}
		return *val
	default:
		return c.sanitizeReflect(val)
	}
}

// sanitizeReflect normalizes other string-keyed maps and slices into the
// generic tree shapes so their keys are redacted too. []byte is left alone.
func (c *AuditCodec) sanitizeReflect(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return c.SanitizeMap(m)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = c.Sanitize(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}

// SanitizeMap is Sanitize for a map; nil stays nil.
func (c *AuditCodec) SanitizeMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if _, ok := c.sensitive[strings.ToLower(k)]; ok {
			out[k] = RedactedValue
			continue
		}
		out[k] = c.Sanitize(v)
	}
	return out
}

// Diff reports every key of before or after whose values differ. A key
// missing on one side compares as nil.
func (c *AuditCodec) Diff(before, after map[string]interface{}) map[string]FieldChange {
	diff := make(map[string]FieldChange)
	visit := func(k string) {
		if _, seen := diff[k]; seen {
			return
		}
		b, a := before[k], after[k]
		if !deepEqual(b, a) {
			diff[k] = FieldChange{Before: b, After: a}
		}
	}
	for k := range before {
		visit(k)
	}
	for k := range after {
		visit(k)
	}
	return diff
}

// BuildChanges sanitizes the snapshots, diffs them when both are present and
// serializes the result. It returns nil when there is nothing to record.
func (c *AuditCodec) BuildChanges(before, after, metadata map[string]interface{}) (*string, error) {
	sb := c.SanitizeMap(before)
	sa := c.SanitizeMap(after)
	sm := c.SanitizeMap(metadata)

	var body changesBody
	present := false

	if sb != nil {
		body.Before = sb
		present = true
	}
	if sa != nil {
		body.After = sa
		present = true
	}
	if sb != nil && sa != nil {
		if diff := c.Diff(sb, sa); len(diff) > 0 {
			body.Diff = diff
		}
	}
	if len(sm) > 0 {
		body.Metadata = sm
		present = true
	}

	if !present {
		return nil, nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode audit changes: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// ParseChanges decodes a stored payload. A nil or empty input yields nil.
func (c *AuditCodec) ParseChanges(raw *string) (*AuditChanges, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var out AuditChanges
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil, fmt.Errorf("decode audit changes: %w", err)
	}
	return &out, nil
}

// deepEqual compares snapshot values: timestamps by instant, numbers by
// value regardless of Go type, maps by identical key sets, slices by position.
func deepEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if _, ok := b.(time.Time); ok {
		return false
	}

	if na, ok := toFloat(a); ok {
		nb, ok := toFloat(b)
		return ok && na == nb
	}

	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case map[string]interface{}:
		vb, ok := b.(map[string]interface{})
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, av := range va {
			bv, present := vb[k]
			if !present || !deepEqual(av, bv) {
				return false
			}
		}
		return true
	case []interface{}:
		vb, ok := b.([]interface{})
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !deepEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
