package clickupapi

// Opt is an explicit-presence wrapper for optional request fields.
// A zero Opt means "not provided"; an Opt with Set true is serialized
// even when the value itself is a zero value (false, 0, ""). Partial
// updates depend on this distinction: an omitted field must not clear
// the server-side value, while an explicitly chosen false/0 must.
type Opt[T any] struct {
	Value T
	Set   bool
}

// NewOpt returns an Opt holding v with presence marked.
func NewOpt[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// SetTo assigns v and marks the field as present.
func (o *Opt[T]) SetTo(v T) {
	o.Value = v
	o.Set = true
}

// Get returns the value and whether it was explicitly set.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Or returns the value if set, otherwise def.
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}
