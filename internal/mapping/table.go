package mapping

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"mapper-generator/internal/analyze"
)

// Entry maps one source property.
type Entry struct {
	SourceField    string
	TargetField    string
	CustomMapper   string
	CollectionItem analyze.TypeID
}

// HasCustomMapper reports whether the entry names a conversion function.
func (e Entry) HasCustomMapper() bool {
	return e.CustomMapper != ""
}

// HasCollectionItem reports whether the entry declares a collection item type.
func (e Entry) HasCollectionItem() bool {
	return !e.CollectionItem.IsZero()
}

// Identity returns the entry used for a property that has no table entry.
func Identity(property string) Entry {
	return Entry{SourceField: property, TargetField: property}
}

// Table is an insertion-ordered map of source property to Entry.
// A nil *Table behaves as an empty table.
type Table struct {
	entries *linkedhashmap.Map // source property -> Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: linkedhashmap.New()}
}

// Put adds or replaces the entry of e.SourceField, keeping its original position.
func (t *Table) Put(e Entry) {
	t.entries.Put(e.SourceField, e)
}

// Get returns the entry of a source property.
func (t *Table) Get(source string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	v, ok := t.entries.Get(source)
	if !ok {
		return Entry{}, false
	}

	return v.(Entry), true
}

// Lookup returns the entry of a source property, or its identity entry.
func (t *Table) Lookup(source string) Entry {
	if e, ok := t.Get(source); ok {
		return e
	}

	return Identity(source)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return t.entries.Size()
}

// Entries returns all entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}

	out := make([]Entry, 0, t.entries.Size())

	it := t.entries.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Entry))
	}

	return out
}

// Invert swaps source and target of every entry, producing the seed for the
// opposite direction. Custom mappers convert one way only and are dropped.
// When several sources share a target, the first one wins.
func (t *Table) Invert() *Table {
	inverted := NewTable()

	for _, e := range t.Entries() {
		if _, taken := inverted.Get(e.TargetField); taken {
			continue
		}

		inverted.Put(Entry{
			SourceField:    e.TargetField,
			TargetField:    e.SourceField,
			CollectionItem: e.CollectionItem,
		})
	}

	return inverted
}
