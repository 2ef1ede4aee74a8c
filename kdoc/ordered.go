package kdoc

// OrderedMap is a string-to-string map that remembers insertion order, used
// for a declaration's sections and parameter descriptions: both require
// insertion-order iteration, and both support "append to an existing key"
// semantics for duplicate titles.
type OrderedMap struct {
	keys []string
	vals map[string]string
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]string)}
}

// Set assigns val to key, appending key to the iteration order the first
// time it is seen. An existing key is overwritten, not merged; use Append
// for the "duplicate section" merge behavior.
func (o *OrderedMap) Set(key, val string) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

// Append adds val under key. If key already exists, the new text is
// concatenated onto the old text separated by a blank line, and Append
// reports true so the caller can emit a warning. A fresh key is simply set
// and Append reports false.
func (o *OrderedMap) Append(key, val string) (duplicate bool) {
	if old, ok := o.vals[key]; ok {
		o.vals[key] = old + "\n\n" + val
		return true
	}
	o.Set(key, val)
	return false
}

// Get returns the value for key and whether it was present.
func (o *OrderedMap) Get(key string) (string, bool) {
	val, ok := o.vals[key]
	return val, ok
}

// Has reports whether key is present.
func (o *OrderedMap) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *OrderedMap) Keys() []string {
	return o.keys
}

// Len returns the number of entries.
func (o *OrderedMap) Len() int {
	return len(o.keys)
}

// Clone returns a deep copy, used when a dump event freezes the current
// per-declaration sections/descriptions before the context is reset.
func (o *OrderedMap) Clone() *OrderedMap {
	c := NewOrderedMap()
	for _, k := range o.keys {
		c.Set(k, o.vals[k])
	}
	return c
}
