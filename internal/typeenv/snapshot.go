package typeenv

import (
	"strconv"

	"github.com/tidwall/sjson"
)

// Snapshot renders the full scope chain (innermost scope first, each
// carrying its own type-alias and value-binding names) as a JSON document,
// for IDE tooling consuming the checker's type environment mid-compile
// (spec §6's "TypeEnvironment snapshots... useful for IDE tooling").
// Built incrementally with sjson.Set in the same streaming style
// internal/diag.ToJSON uses for diagnostic batches.
func (e *TypeEnvironment) Snapshot() (string, error) {
	json := "[]"
	depth := 0
	for scope := e; scope != nil; scope = scope.outer {
		base := indexPath(depth)
		var err error
		json, err = sjson.Set(json, base+".depth", depth)
		if err != nil {
			return "", err
		}
		for name, t := range scope.typeAliases {
			json, err = sjson.Set(json, base+".types."+jsonKey(name), t.String())
			if err != nil {
				return "", err
			}
		}
		for name, t := range scope.values {
			json, err = sjson.Set(json, base+".values."+jsonKey(name), t.String())
			if err != nil {
				return "", err
			}
		}
		for name := range scope.namespaces {
			json, err = sjson.Set(json, base+".namespaces.-1", name)
			if err != nil {
				return "", err
			}
		}
		depth++
	}
	return json, nil
}

func indexPath(i int) string {
	return strconv.Itoa(i)
}

// jsonKey escapes a name so it's safe as an sjson path segment: sjson
// treats '.' and '*' specially in path components.
func jsonKey(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case '.', '*', '?', '#':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
