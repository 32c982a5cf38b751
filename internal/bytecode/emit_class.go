package bytecode

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/dispatch"
)

// emitClass compiles every method/getter/setter of decl into its own
// Chunk (appended to Program.Functions) and fills in the ClassLayout
// registerClass already reserved a slot for: field order, private-field
// marks, and method-name-to-chunk-index tables OpNewInstance/
// OpCallDirect/OpGetPrivate consult at emit time and a runtime would
// consult to lay out an actual instance.
func (e *Emitter) emitClass(decl *ast.ClassDecl) error {
	layout := e.classLayout(decl.Name.Value)
	if decl.Super != nil {
		if super := e.classLayout(decl.Super.Name); super != nil {
			layout.SuperIndex = e.classIndex[decl.Super.Name]
		}
	}

	for _, m := range decl.Members {
		switch member := m.(type) {
		case *ast.FieldDecl:
			name, private := classMemberKey(member.Name, member.PrivateName)
			if member.IsStatic {
				continue // static properties live in the class's own init chunk, not instance layout
			}
			layout.Fields = append(layout.Fields, name)
			if private {
				layout.PrivateFields[name] = true
			}
		case *ast.MethodDecl:
			if member.Body == nil {
				continue // overload signature
			}
			name, _ := classMemberKey(member.Name, member.PrivateName)
			fe := newFuncEmitter(e, NewChunk(decl.Name.Value+"."+name), nil)
			fe.declareLocal("this")
			for _, p := range member.Params {
				fe.declareLocal(p.Name)
			}
			chunk := fe.chunk
			chunk.ParamCount = len(member.Params)
			chunk.IsAsync = member.IsAsync
			if member.IsAsync {
				plan := dispatch.PlanAsync(member.Body)
				chunk.HoistedLocals = plan.HoistedLocals
				fe.asyncPlan = plan
				fe.nextAwaitState = 1
				fe.emitAsyncPrologue(plan.StateCount)
			}
			if err := fe.emitBlock(member.Body); err != nil {
				return err
			}
			fe.chunk.Emit(MakeSimpleInstruction(OpLoadUndefined), member.Pos().Line)
			fe.chunk.Emit(MakeSimpleInstruction(OpReturn), member.Pos().Line)
			chunk.LocalCount = fe.localCount

			idx := len(e.prog.Functions)
			e.prog.Functions = append(e.prog.Functions, chunk)

			switch {
			case member.Kind == ast.MethodConstructor:
				layout.Constructor = idx
			case member.IsStatic:
				layout.StaticMethods[name] = idx
			default:
				layout.Methods[name] = idx
			}
		}
	}
	return nil
}

func classMemberKey(name *ast.Identifier, priv *ast.PrivateIdentifier) (string, bool) {
	if priv != nil {
		return priv.Value, true
	}
	return name.Value, false
}
