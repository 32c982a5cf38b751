package interpreter

import (
	"fmt"

	"github.com/tsgoscript/tscore/internal/dispatch"
)

// brandRegistryEntry wraps the shared dispatch.BrandRegistry for a single
// class's private (`#name`) members. Every class with at least one
// private field or method gets its own registry, keyed by the class's
// declared name, mirroring spec §4.6's "per-class weak mapping" model.
type brandRegistryEntry struct {
	registry *dispatch.BrandRegistry
}

func newBrandRegistryEntry(className string) *brandRegistryEntry {
	return &brandRegistryEntry{registry: dispatch.NewBrandRegistry(className)}
}

// brandInstance registers instance with cls's private-member brand, if
// it declares any. Called once, right after field initialization, for
// every `new` of a class carrying private members.
func brandInstance(cls *ClassValue, instance *InstanceValue) {
	if cls.Brand == nil {
		return
	}
	cls.Brand.registry.Init(instance)
}

// getPrivate reads a `#name` slot on instance, raising a runtime error
// (never reached for a correctly checked program — ES2022 brand checks
// are static in this checker) if instance doesn't carry owner's brand.
func getPrivate(owner *ClassValue, instance *InstanceValue, name string) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RuntimeError{Message: fmt.Sprint(r)}
		}
	}()
	raw := owner.Brand.registry.Get(instance, name)
	if raw == nil {
		return &UndefinedValue{}, nil
	}
	return raw.(Value), nil
}

func setPrivate(owner *ClassValue, instance *InstanceValue, name string, v Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RuntimeError{Message: fmt.Sprint(r)}
		}
	}()
	owner.Brand.registry.Set(instance, name, v)
	return nil
}
