package interpreter

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/token"
)

// defineClass builds a ClassValue from a class declaration: its own
// methods and static members, a link to its already-defined superclass,
// and — when the class declares any `#private` member — a fresh
// BrandRegistry so instance construction can brand the instance before
// any field initializer runs (a field initializer may itself read
// another private field).
//
// Grounded on the teacher's internal/interp ClassInfo/NewClassInfo: a
// class value here is built once, at declaration time, and instantiation
// only ever reads from it — it never copies method bodies per instance.
func (ip *Interpreter) defineClass(decl *ast.ClassDecl, env *Environment) (*ClassValue, error) {
	cls := &ClassValue{
		Name:        decl.Name.Value,
		Methods:     map[string]*FunctionValue{},
		StaticProps: map[string]Value{},
		DefiningEnv: env,
	}

	if decl.Super != nil {
		superVal, ok := env.Get(decl.Super.Name)
		if !ok {
			return nil, newRuntimeError(decl.Pos(), "class %s extends undefined class %s", cls.Name, decl.Super.Name)
		}
		super, ok := superVal.(*ClassValue)
		if !ok {
			return nil, newRuntimeError(decl.Pos(), "class %s extends a non-class value", cls.Name)
		}
		cls.Super = super
	}

	hasPrivate := false
	for _, m := range decl.Members {
		switch member := m.(type) {
		case *ast.MethodDecl:
			if member.Body == nil {
				continue // overload signature, no implementation to run
			}
			name, private := memberKey(member.Name, member.PrivateName)
			fn := ip.makeFunction(name, member.Params, member.Body, member.IsAsync, env)
			switch {
			case member.Kind == ast.MethodConstructor:
				cls.Constructor = fn
			case member.Kind == ast.MethodGetter:
				if member.IsStatic {
					cls.StaticProps["get "+name] = fn
				} else {
					cls.Methods["get "+name] = fn
				}
			case member.Kind == ast.MethodSetter:
				if member.IsStatic {
					cls.StaticProps["set "+name] = fn
				} else {
					cls.Methods["set "+name] = fn
				}
			case member.IsStatic:
				cls.StaticProps[name] = fn
			default:
				cls.Methods[name] = fn
			}
			if private {
				hasPrivate = true
			}
		case *ast.FieldDecl:
			name, private := memberKey(member.Name, member.PrivateName)
			if private {
				hasPrivate = true
			}
			if member.IsStatic {
				var v Value = &UndefinedValue{}
				if member.Init != nil {
					init, err := ip.eval(member.Init, env)
					if err != nil {
						return nil, err
					}
					v = init
				}
				cls.StaticProps[name] = v
				continue
			}
			cls.Fields = append(cls.Fields, FieldInit{Name: name, Private: private, Init: member.Init})
		}
	}

	if hasPrivate {
		cls.Brand = newBrandRegistryEntry(cls.Name)
	}

	ip.classes[cls.Name] = cls
	env.Define(cls.Name, cls, true)
	return cls, nil
}

// memberKey resolves a class member's runtime key, preferring the
// `#name` private identifier when one is set.
func memberKey(name *ast.Identifier, priv *ast.PrivateIdentifier) (string, bool) {
	if priv != nil {
		return priv.Value, true
	}
	return name.Value, false
}

// instantiate allocates a new instance, runs field initializers down the
// superclass chain (base class first, matching the order its own
// constructor would run them), brands it for private-slot access if
// needed, then runs the nearest constructor found walking up from cls.
func (ip *Interpreter) instantiate(cls *ClassValue, args []Value, pos token.Position) (*InstanceValue, error) {
	inst := &InstanceValue{Class: cls, Fields: map[string]Value{}}

	for c := cls; c != nil; c = c.Super {
		if c.Brand != nil {
			brandInstance(c, inst)
		}
	}

	var chain []*ClassValue
	for c := cls; c != nil; c = c.Super {
		chain = append(chain, c)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		for _, f := range c.Fields {
			var v Value = &UndefinedValue{}
			if f.Init != nil {
				initEnv := NewEnclosedEnvironment(c.DefiningEnv)
				initEnv.Define("this", inst, true)
				val, err := ip.eval(f.Init, initEnv)
				if err != nil {
					return nil, err
				}
				v = val
			}
			if f.Private {
				if err := setPrivate(c, inst, f.Name, v); err != nil {
					return nil, err
				}
				continue
			}
			inst.Fields[f.Name] = v
		}
	}

	for c := cls; c != nil; c = c.Super {
		if c.Constructor != nil {
			if _, err := ip.callFunction(c.Constructor, inst, args, pos); err != nil {
				return nil, err
			}
			break
		}
	}

	return inst, nil
}

