package dispatch

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/types"
)

// MemberDispatchKind distinguishes direct member access (the receiver's
// exact runtime class is statically known) from dynamic dispatch (virtual
// call through whatever class the receiver turns out to be at runtime).
type MemberDispatchKind int

const (
	// DynamicDispatch is the default: look the member up on the receiver's
	// actual runtime class, walking the superclass chain.
	DynamicDispatch MemberDispatchKind = iota
	// DirectDispatch means the TypeMap already pins the receiver to a
	// specific Instance(C) and C or one of its superclasses declares the
	// member, so the back-end may bind straight to that member slot
	// without a runtime class lookup.
	DirectDispatch
)

// ClassifyMemberAccess implements spec §4.6's dispatch rule: "For every
// obj.name access the dispatcher consults the TypeMap for obj. If it is an
// Instance(C) and C declares the member, emit direct dispatch... Otherwise
// fall through to runtime dispatch." Returns the owning class for direct
// dispatch, or nil when dynamic dispatch applies.
func ClassifyMemberAccess(tm *checker.TypeMap, obj ast.Expression, member string) (MemberDispatchKind, *types.Class) {
	t, ok := tm.Get(obj)
	if !ok {
		return DynamicDispatch, nil
	}
	inst, ok := t.(*types.Instance)
	if !ok {
		return DynamicDispatch, nil
	}
	cls := inst.ResolvedClass()
	if cls == nil {
		return DynamicDispatch, nil
	}
	if owner := declaringClass(cls, member); owner != nil {
		return DirectDispatch, owner
	}
	return DynamicDispatch, nil
}

// declaringClass walks cls and its superclass chain, returning the class
// that actually declares member (as a method, getter, setter, or field),
// or nil if no ancestor declares it — which can only mean the checker
// already rejected the access and this call site is unreachable at
// runtime.
func declaringClass(cls *types.Class, member string) *types.Class {
	for c := cls; c != nil; c = c.Superclass {
		if _, ok := c.Methods[member]; ok {
			return c
		}
		if _, ok := c.Getters[member]; ok {
			return c
		}
		if _, ok := c.Setters[member]; ok {
			return c
		}
		if _, ok := c.DeclaredFieldTypes[member]; ok {
			return c
		}
	}
	return nil
}

// ClassifyStaticMemberAccess resolves a Class.member static access the
// same way, since static dispatch is always direct once the checker has
// resolved which Class owns the static member.
func ClassifyStaticMemberAccess(cls *types.Class, member string) *types.Class {
	for c := cls; c != nil; c = c.Superclass {
		if _, ok := c.StaticMethods[member]; ok {
			return c
		}
		if _, ok := c.StaticProperties[member]; ok {
			return c
		}
	}
	return nil
}
