package dotenv

// Entry is a single KEY=VALUE assignment.
type Entry struct {
	Key   string
	Value string
}

// Values is an ordered mapping of dotenv entries.
//
// A key keeps the position of its first occurrence and the value of its last.
type Values struct {
	keys []string
	m    map[string]string
}

// NewValues returns an empty mapping.
func NewValues() *Values {
	return &Values{m: make(map[string]string)}
}

// Get returns the value stored under key.
func (v *Values) Get(key string) (string, bool) {
	val, ok := v.m[key]
	return val, ok
}

// Set inserts key at the end, or overwrites it in place if already present.
func (v *Values) Set(key, value string) {
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = value
}

// Delete removes key and reports whether it was present.
func (v *Values) Delete(key string) bool {
	if _, ok := v.m[key]; !ok {
		return false
	}
	delete(v.m, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of keys.
func (v *Values) Len() int { return len(v.keys) }

// Keys returns the keys in file order.
func (v *Values) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Entries returns the entries in file order.
func (v *Values) Entries() []Entry {
	out := make([]Entry, 0, len(v.keys))
	for _, k := range v.keys {
		out = append(out, Entry{Key: k, Value: v.m[k]})
	}
	return out
}

// Map returns an unordered copy of the mapping.
func (v *Values) Map() map[string]string {
	out := make(map[string]string, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}
