package collections

// IdentityMap is a map keyed by item identity. Collection items must be
// distinguishable by identity — in practice, pointers (or other reference
// types) — not by structural equality. Two distinct pointers to equal
// values are two distinct keys, which is exactly what the renderer
// bookkeeping requires; a duplicate identity in a data source is the fatal
// case, detected by the pool during its update pass.
type IdentityMap[V any] struct {
	m map[any]V
}

// Get returns the value bound to the item and whether one exists.
func (im *IdentityMap[V]) Get(item any) (V, bool) {
	v, ok := im.m[item]
	return v, ok
}

// Set binds a value to the item.
func (im *IdentityMap[V]) Set(item any, v V) {
	if im.m == nil {
		im.m = make(map[any]V)
	}
	im.m[item] = v
}

// Delete removes the item's binding, if any.
func (im *IdentityMap[V]) Delete(item any) {
	delete(im.m, item)
}

// Has reports whether the item has a binding.
func (im *IdentityMap[V]) Has(item any) bool {
	_, ok := im.m[item]
	return ok
}

// Len returns the number of bindings.
func (im *IdentityMap[V]) Len() int { return len(im.m) }

// Clear drops every binding.
func (im *IdentityMap[V]) Clear() { im.m = nil }

// Range calls fn for every binding until fn returns false.
func (im *IdentityMap[V]) Range(fn func(item any, v V) bool) {
	for k, v := range im.m {
		if !fn(k, v) {
			return
		}
	}
}
