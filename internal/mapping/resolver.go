package mapping

import "mapper-generator/internal/analyze"

// Resolve builds the mapping table of a source schema, one entry per field in
// declaration order. seed may be nil. Missing information defaults to identity.
func Resolve(schema *analyze.TypeSchema, seed *Table) *Table {
	table := NewTable()

	for _, field := range schema.Fields {
		entry := Identity(field.Property)

		ann, annotated := schema.FieldAnnotations[field.Name]
		seeded, hasSeed := seed.Get(field.Property)

		switch {
		case annotated && ann.TargetName != "":
			entry.TargetField = ann.TargetName
			entry.CustomMapper = ann.CustomMapper
		case hasSeed:
			entry.TargetField = seeded.TargetField
			entry.CustomMapper = seeded.CustomMapper
		}

		switch {
		case annotated && !ann.CollectionItem.IsZero():
			entry.CollectionItem = ann.CollectionItem
		case hasSeed:
			entry.CollectionItem = seeded.CollectionItem
		}

		table.Put(entry)
	}

	return table
}
