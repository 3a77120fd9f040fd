package value

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the object variant's backing store: an insertion-ordered
// string-keyed map of values. Runtime iteration order follows
// insertion (last-write-wins on duplicate keys, per // ObjectConstruct); codecs may re-sort keys on serialization when
// requested.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

// Get returns the value for key, or (Null, false) on miss.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.m == nil {
		return Null, false
	}
	return o.m.Get(key)
}

// Set inserts or overwrites key (last write wins, existing position preserved on overwrite).
func (o *Object) Set(key string, v Value) {
	o.m.Set(key, v)
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	o.m.Delete(key)
}

func (o *Object) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	if o == nil || o.m == nil {
		return keys
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns values in the same order as Keys.
func (o *Object) Values() []Value {
	vals := make([]Value, 0, o.Len())
	if o == nil || o.m == nil {
		return vals
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		vals = append(vals, pair.Value)
	}
	return vals
}

// Each iterates key/value pairs in insertion order.
func (o *Object) Each(fn func(key string, v Value)) {
	if o == nil || o.m == nil {
		return
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns a shallow copy sharing no mutable state with o — used
// by copy-on-write updates (assignment, del).
func (o *Object) Clone() *Object {
	n := NewObject()
	o.Each(func(k string, v Value) { n.Set(k, v) })
	return n
}

// Equal compares two objects structurally (key set and values must match;
// order is not significant).
func (o *Object) Equal(other *Object, eq func(a, b Value) bool) bool {
	if o.Len() != other.Len() {
		return false
	}
	ok := true
	o.Each(func(k string, v Value) {
		ov, found := other.Get(k)
		if !found || !eq(v, ov) {
			ok = false
		}
	})
	return ok
}
