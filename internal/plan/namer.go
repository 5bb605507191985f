package plan

import (
	"strconv"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
)

type pairKey struct {
	source analyze.TypeID
	target analyze.TypeID
}

// Namer hands out mapper names that are unique within one run.
// A pair keeps the first name it was given.
type Namer struct {
	byPair map[pairKey]string
	owner  map[string]pairKey
}

// NewNamer creates an empty namer.
func NewNamer() *Namer {
	return &Namer{
		byPair: make(map[pairKey]string),
		owner:  make(map[string]pairKey),
	}
}

// Reserve records an explicit name for a pair. It reports false when the
// name already belongs to a different pair.
func (n *Namer) Reserve(source, target analyze.TypeID, name string) bool {
	key := pairKey{source: source, target: target}

	if owner, taken := n.owner[name]; taken && owner != key {
		return false
	}

	n.byPair[key] = name
	n.owner[name] = key

	return true
}

// Lookup returns the name assigned to a pair.
func (n *Namer) Lookup(source, target analyze.TypeID) (string, bool) {
	name, ok := n.byPair[pairKey{source: source, target: target}]

	return name, ok
}

// Assign names a pair, starting from base. On collision with another pair the
// source package name is prepended, then its parent segment, then a number is
// appended.
func (n *Namer) Assign(source, target analyze.TypeID, base string) string {
	if name, ok := n.Lookup(source, target); ok {
		return name
	}

	pkg := common.Exported(common.PkgAlias(source.PkgPath))
	parent := common.Exported(common.ParentSegment(source.PkgPath))

	candidates := []string{base}
	if pkg != "" {
		candidates = append(candidates, pkg+base)
		if parent != "" {
			candidates = append(candidates, parent+pkg+base)
		}
	}

	for _, c := range candidates {
		if n.Reserve(source, target, c) {
			return c
		}
	}

	for i := 2; ; i++ {
		if c := base + strconv.Itoa(i); n.Reserve(source, target, c) {
			return c
		}
	}
}
