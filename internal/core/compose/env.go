package compose

import (
	"fmt"
	"strings"
)

// =============================================================================
// EnvMap - Flat Environment Mapping
// =============================================================================

// EnvMap is a flat KEY -> VALUE mapping that remembers first-insertion order.
// A nil *EnvMap reads as empty.
type EnvMap struct {
	keys   []string
	values map[string]string
}

// NewEnvMap creates an EnvMap from alternating key, value arguments.
//
// Example:
//
//	NewEnvMap("POSTGRES_USER", "postgres", "POSTGRES_DB", "db")
func NewEnvMap(pairs ...string) *EnvMap {
	e := &EnvMap{values: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		e.Set(pairs[i], pairs[i+1])
	}
	return e
}

// Set stores value under key. Overwriting keeps the key's first position.
func (e *EnvMap) Set(key, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value stored under key.
func (e *EnvMap) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[key]
	return v, ok
}

// Keys returns keys in first-insertion order.
func (e *EnvMap) Keys() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of entries.
func (e *EnvMap) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Merge applies a plain key-overwrite union: later contributions override
// earlier ones with the same key.
func (e *EnvMap) Merge(contributed *EnvMap) {
	for _, k := range contributed.Keys() {
		v, _ := contributed.Get(k)
		e.Set(k, v)
	}
}

// Pairs returns the entries formatted as KEY=VALUE in order.
func (e *EnvMap) Pairs() []string {
	out := make([]string, 0, e.Len())
	for _, k := range e.Keys() {
		v, _ := e.Get(k)
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}

// MarshalEnv renders the mapping as an env template: one KEY=VALUE per line.
func MarshalEnv(env *EnvMap) []byte {
	var b strings.Builder
	for _, pair := range env.Pairs() {
		b.WriteString(pair)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
