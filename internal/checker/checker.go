// Package checker implements the bidirectional type checker: statement and
// expression traversal, overload resolution, generic inference, narrowing,
// and control-flow validation over the internal/ast tree, producing a
// TypeMap the lowering core consumes (spec §4.3, §5).
//
// Grounded on the teacher's internal/semantic.Analyzer: a single struct
// carrying symbol/class/interface/enum/namespace registries and a handful
// of "current X" cursor fields, with one driving Check entry point and
// post-pass validation for forward-declared members. Where the teacher
// accumulates errors into a slice and keeps going, this checker follows
// spec §7's propagation policy instead: every diagnostic is fatal, raised
// by panicking a *diag.Diagnostic and recovered once at the top of Check.
package checker

import (
	"fmt"

	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/token"
	"github.com/tsgoscript/tscore/internal/typeenv"
	"github.com/tsgoscript/tscore/internal/types"
)

// TypeMap records the resolved TypeInfo for every checked expression, keyed
// by node identity. Spec §5 requires this be write-once: the checker visits
// any given expression's type exactly one time per pass.
type TypeMap struct {
	entries map[ast.Expression]types.TypeInfo
}

// NewTypeMap creates an empty TypeMap.
func NewTypeMap() *TypeMap {
	return &TypeMap{entries: map[ast.Expression]types.TypeInfo{}}
}

// Set records expr's type. Panics if expr already has a recorded type —
// that would mean the checker visited the same node twice, which is a
// checker bug, not a recoverable program error.
func (m *TypeMap) Set(expr ast.Expression, t types.TypeInfo) {
	if _, ok := m.entries[expr]; ok {
		panic("checker: TypeMap already has an entry for this expression")
	}
	m.entries[expr] = t
}

// Get returns expr's recorded type, if any.
func (m *TypeMap) Get(expr ast.Expression) (types.TypeInfo, bool) {
	t, ok := m.entries[expr]
	return t, ok
}

// Len reports how many expressions have been typed, mostly for tests and
// diagnostics snapshots.
func (m *TypeMap) Len() int { return len(m.entries) }

// Tracer receives checker decision events when tracing is enabled
// (`--trace` on the cmd/tscore CLI). nil is a valid Tracer: checks against
// it are nil-safe via the Trace helper below.
type Tracer interface {
	Trace(event string, pos token.Position, detail string)
}

// Options carries the strictness flags and caps internal/config loads from
// source. A zero Options has every strictness flag off; DefaultOptions
// turns them on. No check in this package reads the strictness flags.
type Options struct {
	StrictNullChecks    bool
	NoImplicitAny       bool
	StrictFunctionTypes bool

	// TemplateLiteralExpansionCap and TypeAliasExpansionDepth override
	// internal/typeenv's package-default caps (spec §4.2) when nonzero;
	// internal/config.Options plumbs these in from a loaded tscore.yaml.
	TemplateLiteralExpansionCap int
	TypeAliasExpansionDepth     int
}

// DefaultOptions returns the strict-by-default configuration used when no
// internal/config.Options is supplied.
func DefaultOptions() Options {
	return Options{StrictNullChecks: true, NoImplicitAny: true, StrictFunctionTypes: true}
}

// loopLabel is one entry of the checker's active loop/switch/label stack,
// used to validate break/continue targets (spec §4.3 control-flow
// invariants).
type loopLabel struct {
	name      string // "" for an unlabeled loop/switch frame
	isLoop    bool   // false for a bare labeled non-loop statement or switch
	isSwitch  bool
}

// classFrame tracks the class currently being checked, so `this`,
// `super`, and access-level checks resolve against the right nominal type.
type classFrame struct {
	class   *types.Class
	generic []*types.TypeParameter
}

// funcFrame tracks the function/method whose body is being checked, for
// `return` type validation and `await`/`yield` context.
type funcFrame struct {
	returnType types.TypeInfo
	isAsync    bool
	sawReturn  bool
}

// Checker holds all state needed to check one program: the root type
// environment, the declaration registries built during the hoisting pass,
// and the cursor stacks tracked while walking statements and expressions.
type Checker struct {
	env     *typeenv.TypeEnvironment
	typeMap *TypeMap
	opts    Options
	tracer  Tracer

	classes       map[string]*types.MutableClass
	classDecls    map[string]*ast.ClassDecl
	classGenerics map[string][]*types.TypeParameter
	interfaces map[string]*types.Interface
	enums      map[string]*types.Enum
	namespaces map[string]*types.Namespace
	functions  map[string]*funcGroup // name -> accumulated overload group
	namespaceEnvs map[*ast.NamespaceDecl]*typeenv.TypeEnvironment

	classStack []*classFrame
	funcStack  []*funcFrame
	loopStack  []*loopLabel

	// narrowed holds the current narrowed type for a value name, shadowing
	// its declared type within the statement scope that narrowed it (spec
	// §4.3 narrowing). Popped via narrowScope save/restore.
	narrowed map[string]types.TypeInfo
}

// funcGroup accumulates sibling overload signatures for one declared
// function name until the bodied implementation is seen (spec §3,
// OverloadedFunction).
type funcGroup struct {
	signatures     []*types.Function
	implementation *types.Function
}

// New creates a Checker with a fresh root TypeEnvironment and the given
// options. Pass DefaultOptions() when no project configuration is loaded.
func New(opts Options, tracer Tracer) *Checker {
	if opts.TemplateLiteralExpansionCap > 0 {
		typeenv.MaxTemplateCombinations = opts.TemplateLiteralExpansionCap
	}
	if opts.TypeAliasExpansionDepth > 0 {
		typeenv.MaxAliasExpansionDepth = opts.TypeAliasExpansionDepth
	}
	return &Checker{
		env:        typeenv.New(),
		typeMap:    NewTypeMap(),
		opts:       opts,
		tracer:     tracer,
		classes:       map[string]*types.MutableClass{},
		classDecls:    map[string]*ast.ClassDecl{},
		classGenerics: map[string][]*types.TypeParameter{},
		interfaces: map[string]*types.Interface{},
		enums:      map[string]*types.Enum{},
		namespaces: map[string]*types.Namespace{},
		functions:  map[string]*funcGroup{},
		namespaceEnvs: map[*ast.NamespaceDecl]*typeenv.TypeEnvironment{},
		narrowed:   map[string]types.TypeInfo{},
	}
}

// trace forwards an event to the configured Tracer, if any.
func (c *Checker) trace(event string, pos token.Position, detail string) {
	if c.tracer != nil {
		c.tracer.Trace(event, pos, detail)
	}
}

// TypeMap returns the checker's accumulated expression type map. Valid to
// call after Check/CheckAll returns, successfully or not (whatever was
// typed before the fatal diagnostic stays in the map).
func (c *Checker) TypeMap() *TypeMap { return c.typeMap }

// Env returns the root TypeEnvironment, exposed for the lowering core and
// tests that need to resolve a standalone type expression the same way the
// checker would.
func (c *Checker) Env() *typeenv.TypeEnvironment { return c.env }

// ScopeSnapshotJSON renders the root TypeEnvironment as JSON for IDE
// tooling (spec §6), delegating to typeenv.TypeEnvironment.Snapshot.
func (c *Checker) ScopeSnapshotJSON() (string, error) {
	return c.env.Snapshot()
}

// fail raises a fatal diagnostic of the given kind. Every checker error
// path funnels through here or through diag.New panics raised by
// typeenv.Resolve/operators.ResultType, so Check's single recover catches
// all of them uniformly.
func (c *Checker) fail(kind diag.Kind, pos token.Position, format string, args ...interface{}) {
	panic(diag.New(kind, pos, fmt.Sprintf(format, args...)))
}

// Check runs the checker over a single program and returns the first fatal
// diagnostic, if any, following spec §7's "does not attempt recovery"
// propagation policy: the first error aborts the whole pass.
func (c *Checker) Check(program *ast.Program) (err *diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			if d, ok := r.(*diag.Diagnostic); ok {
				err = d
				return
			}
			panic(r)
		}
	}()
	c.hoist(program.Statements, c.env)
	c.resolveClasses()
	c.checkStatements(program.Statements)
	c.validateClasses()
	return nil
}

// CheckAll checks a batch of programs sharing one checker/environment, the
// shape used when a namespace or module graph spans several files parsed
// separately upstream of this package.
func (c *Checker) CheckAll(programs []*ast.Program) *diag.Diagnostic {
	for _, p := range programs {
		if err := c.Check(p); err != nil {
			return err
		}
	}
	return nil
}
