package compose

// =============================================================================
// Fragment - One Service Entry
// =============================================================================

// Fragment is the ordered key/value entry a single service contributes to
// the document's services mapping. Key order is insertion order and is kept
// through serialization.
//
// Values are one of: string, int, []string, map[string]string.
type Fragment struct {
	keys   []string
	values map[string]any
}

// NewFragment creates an empty fragment.
func NewFragment() *Fragment {
	return &Fragment{values: make(map[string]any)}
}

// Set stores value under key. Overwriting keeps the key's original position.
func (f *Fragment) Set(key string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Fragment) Get(key string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is set.
func (f *Fragment) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (f *Fragment) Keys() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of keys.
func (f *Fragment) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Merge returns a new fragment holding base's entries followed by overlay's.
// On conflict the overlay value wins and base's key position is kept.
//
// Example:
//
//	base := {env_file: [.env]}
//	overlay := {image: redis:7, env_file: [.env.local]}
//	Merge(base, overlay) // {env_file: [.env.local], image: redis:7}
func Merge(base, overlay *Fragment) *Fragment {
	out := NewFragment()
	for _, k := range base.Keys() {
		v, _ := base.Get(k)
		out.Set(k, v)
	}
	for _, k := range overlay.Keys() {
		v, _ := overlay.Get(k)
		out.Set(k, v)
	}
	return out
}
