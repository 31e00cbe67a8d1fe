package domain

// Record is one opaque serialized payload produced by a record source.
// It is immutable once produced; the loader decodes it into an Entity.
type Record struct {
	// Origin describes where the record came from, for error messages only.
	Origin string

	// Payload is the serialized record.
	Payload []byte
}

// Entity is a decoded record. It is identified by GUID and may refer to
// other entities through its relations.
type Entity struct {
	// GUID is the globally unique identifier and the collection key.
	GUID string

	// Kind is the entity type as named by the record (e.g. "thread", "slice").
	Kind string

	// Title is the human-readable label.
	Title string

	// Attributes contains the remaining record fields.
	Attributes map[string]any

	// Relations are the entity's references to other entities.
	Relations []Relation
}

// Relation is a named reference from one entity to another.
// A relation field holding several GUIDs produces one Relation per GUID.
type Relation struct {
	// Name is the relation field name.
	Name string

	// Ref is the reference, raw until resolution.
	Ref Ref
}

// Ref is a GUID reference that resolution turns into a direct link.
type Ref struct {
	// GUID is the raw target identifier. It is kept after resolution.
	GUID string

	// Target is the referenced entity, nil while unresolved.
	Target *Entity
}

// Resolved reports whether the reference points at a live entity.
func (r Ref) Resolved() bool {
	return r.Target != nil
}

// Label returns the entity title, falling back to its GUID.
func (e *Entity) Label() string {
	if e.Title != "" {
		return e.Title
	}
	return e.GUID
}

// UnresolvedRef records a relation whose target GUID is absent from the collection.
type UnresolvedRef struct {
	// From is the GUID of the entity holding the relation.
	From string

	// Relation is the relation field name.
	Relation string

	// GUID is the missing target.
	GUID string
}
