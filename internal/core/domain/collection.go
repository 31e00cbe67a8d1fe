package domain

// Collection owns entities indexed by GUID.
// GUIDs are unique: merging an entity whose GUID is already present replaces
// the stored entity. Iteration follows the order in which each GUID was first
// merged; a replacement keeps the original slot.
//
// A Collection is not safe for concurrent use. The importer owns it
// exclusively until it is handed to the display consumer.
type Collection struct {
	index map[string]int
	items []*Entity
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		index: make(map[string]int),
	}
}

// Merge inserts the entity, or replaces the stored entity with the same GUID.
// It reports whether an existing entity was replaced.
func (c *Collection) Merge(e *Entity) bool {
	if pos, ok := c.index[e.GUID]; ok {
		c.items[pos] = e
		return true
	}
	c.index[e.GUID] = len(c.items)
	c.items = append(c.items, e)
	return false
}

// Lookup returns the entity stored under guid.
func (c *Collection) Lookup(guid string) (*Entity, bool) {
	pos, ok := c.index[guid]
	if !ok {
		return nil, false
	}
	return c.items[pos], true
}

// Get returns the entity stored under guid, or ErrNotFound.
func (c *Collection) Get(guid string) (*Entity, error) {
	e, ok := c.Lookup(guid)
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Len returns the number of distinct GUIDs.
func (c *Collection) Len() int {
	return len(c.items)
}

// Entities returns the entities in iteration order.
// The slice is a copy; the entities are shared.
func (c *Collection) Entities() []*Entity {
	out := make([]*Entity, len(c.items))
	copy(out, c.items)
	return out
}

// Each calls fn for every entity in iteration order until fn returns false.
func (c *Collection) Each(fn func(*Entity) bool) {
	for _, e := range c.items {
		if !fn(e) {
			return
		}
	}
}

// GUIDs returns the set of GUIDs held by the collection.
func (c *Collection) GUIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(c.index))
	for guid := range c.index {
		out[guid] = struct{}{}
	}
	return out
}

// CountByKind returns the number of entities per kind.
func (c *Collection) CountByKind() map[string]int {
	out := make(map[string]int)
	for _, e := range c.items {
		out[e.Kind]++
	}
	return out
}
