package scope

// ordered is a map that remembers first-insertion order.
type ordered[V any] struct {
	keys   []string
	values map[string]V
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *ordered[V]) set(key string, v V) {
	if o.values == nil {
		o.values = make(map[string]V)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *ordered[V]) remove(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *ordered[V]) copy() *ordered[V] {
	out := &ordered[V]{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]V, len(o.values)),
	}
	for k, v := range o.values {
		out.values[k] = v
	}
	return out
}

// cow is an ordered set that may be shared between a scope and its clones.
// Whoever writes to a shared set first takes a private copy, so the data a
// clone starts from is frozen at clone time on both sides.
type cow[V any] struct {
	data   *ordered[V]
	shared bool
}

// share marks c as shared and returns the view handed to a clone.
func (c *cow[V]) share() cow[V] {
	if c.data == nil {
		return cow[V]{}
	}
	c.shared = true
	return cow[V]{data: c.data, shared: true}
}

func (c *cow[V]) writable() *ordered[V] {
	switch {
	case c.data == nil:
		c.data = &ordered[V]{}
	case c.shared:
		c.data = c.data.copy()
	}
	c.shared = false
	return c.data
}

func (c *cow[V]) get(key string) (V, bool) {
	if c.data == nil {
		var zero V
		return zero, false
	}
	return c.data.get(key)
}

// each calls fn for every entry in insertion order.
func (c *cow[V]) each(fn func(key string, v V)) {
	if c.data == nil {
		return
	}
	for _, k := range c.data.keys {
		fn(k, c.data.values[k])
	}
}

func (c *cow[V]) len() int {
	if c.data == nil {
		return 0
	}
	return len(c.data.keys)
}
