package plan

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/mapping"
)

// Collector finds the dependency mappers of a source schema.
type Collector struct {
	Pairing Pairing
	Namer   *Namer
	// Package is the output package import path.
	Package string
}

// NewCollector creates a collector with its own Namer.
func NewCollector(pairing Pairing, pkg string) *Collector {
	return &Collector{Pairing: pairing, Namer: NewNamer(), Package: pkg}
}

// Collect returns the dependencies of schema in first-seen order. table is
// the forward mapping table of schema and may be nil.
func (c *Collector) Collect(schema *analyze.TypeSchema, table *mapping.Table) *Dependencies {
	deps := newDependencies()
	seen := make(map[string]bool)

	for _, r := range schema.Readables() {
		seen[r.Property] = true

		if nested, ok := nestedType(r.Type, table.Lookup(r.Property)); ok {
			deps.add(r.Property, c.describe(nested))
		}
	}

	// Collection entries whose property cannot be read still need their mapper.
	for _, e := range table.Entries() {
		if seen[e.SourceField] || !e.HasCollectionItem() {
			continue
		}

		deps.add(e.SourceField, c.describe(e.CollectionItem))
	}

	return deps
}

func (c *Collector) describe(source analyze.TypeID) MapperDescriptor {
	if c.Namer == nil {
		c.Namer = NewNamer()
	}

	target := c.Pairing.Pair(source)

	return MapperDescriptor{
		Name:       c.Namer.Assign(source, target, source.Name+mapperSuffix),
		Package:    c.Package,
		SourceType: source,
		TargetType: target,
	}
}

// nestedType returns the type needing a dependency mapper, if any.
// A declared collection item wins over the inferred element type.
func nestedType(t analyze.TypeRef, entry mapping.Entry) (analyze.TypeID, bool) {
	if entry.HasCollectionItem() {
		return entry.CollectionItem, true
	}

	return t.NestedID()
}

// Dependencies is an ordered, deduplicated set of dependency mappers with an
// index from source property to mapper.
type Dependencies struct {
	byName     *linkedhashmap.Map // name -> MapperDescriptor
	byProperty map[string]string
}

func newDependencies() *Dependencies {
	return &Dependencies{
		byName:     linkedhashmap.New(),
		byProperty: make(map[string]string),
	}
}

// NewDependencies builds a set from descriptors, for callers that assemble
// dependencies themselves.
func NewDependencies(descriptors ...MapperDescriptor) *Dependencies {
	deps := newDependencies()
	for _, d := range descriptors {
		deps.add("", d)
	}

	return deps
}

func (d *Dependencies) add(property string, desc MapperDescriptor) {
	if _, ok := d.byName.Get(desc.Name); !ok {
		d.byName.Put(desc.Name, desc)
	}

	if property != "" {
		d.byProperty[property] = desc.Name
	}
}

// Len returns the number of distinct dependencies.
func (d *Dependencies) Len() int {
	if d == nil {
		return 0
	}

	return d.byName.Size()
}

// List returns the descriptors in first-seen order.
func (d *Dependencies) List() []MapperDescriptor {
	if d == nil {
		return nil
	}

	out := make([]MapperDescriptor, 0, d.byName.Size())

	it := d.byName.Iterator()
	for it.Next() {
		out = append(out, it.Value().(MapperDescriptor))
	}

	return out
}

// Names returns the dependency names in first-seen order.
func (d *Dependencies) Names() []string {
	list := d.List()

	names := make([]string, len(list))
	for i, desc := range list {
		names[i] = desc.Name
	}

	return names
}

// ForProperty returns the dependency collected for a source property.
func (d *Dependencies) ForProperty(property string) (MapperDescriptor, bool) {
	if d == nil {
		return MapperDescriptor{}, false
	}

	name, ok := d.byProperty[property]
	if !ok {
		return MapperDescriptor{}, false
	}

	v, _ := d.byName.Get(name)

	return v.(MapperDescriptor), true
}

// ForType returns the first dependency whose source or target type is id.
func (d *Dependencies) ForType(id analyze.TypeID) (MapperDescriptor, bool) {
	for _, desc := range d.List() {
		if desc.SourceType == id || desc.TargetType == id {
			return desc, true
		}
	}

	return MapperDescriptor{}, false
}
