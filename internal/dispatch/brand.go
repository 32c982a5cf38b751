package dispatch

import "fmt"

// BrandRegistry models an ES2022 private class field/method as a weak
// mapping from instance identity to a string-keyed slot map, per spec
// §4.6. Go has no native WeakMap, but the registry's contract only asks
// for "instance -> slot map" lookup, so a plain map keyed by instance
// identity suffices: both back-ends already keep the owning instance
// alive for as long as any of its private members could be read, so
// nothing here needs to be weak in practice.
type BrandRegistry struct {
	ClassName string
	slots     map[any]map[string]any
}

// NewBrandRegistry creates the per-class registry used for className's
// `#name` fields and methods.
func NewBrandRegistry(className string) *BrandRegistry {
	return &BrandRegistry{ClassName: className, slots: map[any]map[string]any{}}
}

// Init brands instance as belonging to this registry's class, giving it
// an empty slot map. Called once, at construction time, for every
// instance of the class (and every subclass instance, since private
// fields are per-declaring-class, not per-most-derived-class).
func (b *BrandRegistry) Init(instance any) {
	if _, ok := b.slots[instance]; !ok {
		b.slots[instance] = map[string]any{}
	}
}

// Has reports whether instance carries this registry's brand — the
// runtime check behind `#x in obj` and behind every `obj.#x` access that
// isn't statically eliminated by the checker.
func (b *BrandRegistry) Has(instance any) bool {
	_, ok := b.slots[instance]
	return ok
}

// Get reads slot on instance. The caller must have already confirmed Has;
// a brand-check failure here means the checker let an invalid access
// through and is a checker bug, not a recoverable program error, so Get
// panics rather than returning a silent zero value.
func (b *BrandRegistry) Get(instance any, slot string) any {
	m, ok := b.slots[instance]
	if !ok {
		panic(fmt.Sprintf("dispatch: brand check failed reading #%s on a non-%s instance", slot, b.ClassName))
	}
	return m[slot]
}

// Set writes slot on instance, same brand-check contract as Get.
func (b *BrandRegistry) Set(instance any, slot string, value any) {
	m, ok := b.slots[instance]
	if !ok {
		panic(fmt.Sprintf("dispatch: brand check failed writing #%s on a non-%s instance", slot, b.ClassName))
	}
	m[slot] = value
}
