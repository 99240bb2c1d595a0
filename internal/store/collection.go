package store

// collection is an insertion-ordered, id-keyed set.
// put on an existing id replaces the value in place (last write wins).
type collection[K ~string, V any] struct {
	order []K
	items map[K]V
}

func newCollection[K ~string, V any]() *collection[K, V] {
	return &collection[K, V]{items: make(map[K]V)}
}

func (c *collection[K, V]) get(id K) (V, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[K, V]) has(id K) bool {
	_, ok := c.items[id]
	return ok
}

func (c *collection[K, V]) put(id K, v V) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[K, V]) remove(id K) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[K, V]) len() int { return len(c.order) }

// values returns the elements in insertion order. The slice is fresh but
// the elements are shallow copies.
func (c *collection[K, V]) values() []V {
	out := make([]V, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.items[k])
	}
	return out
}

// filter returns the elements matching keep, in insertion order.
func (c *collection[K, V]) filter(keep func(V) bool) []V {
	out := make([]V, 0)
	for _, k := range c.order {
		if v := c.items[k]; keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (c *collection[K, V]) reset(ids func(V) K, vals []V) {
	c.order = c.order[:0]
	c.items = make(map[K]V, len(vals))
	for _, v := range vals {
		c.put(ids(v), v)
	}
}
