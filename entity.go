package appconfiguration

// Entity is a caller-supplied subject — typically a user, session, or
// request — identified by a string id, with a set of named attribute
// values consulted by segment predicates during evaluation.
type Entity struct {
	ID         string
	Attributes map[string]any
}

// NewEntity builds an Entity with an empty attribute set.
func NewEntity(id string) Entity {
	return Entity{ID: id, Attributes: map[string]any{}}
}

// WithAttribute returns a copy of the entity with name set to value,
// letting callers build an Entity fluently.
func (e Entity) WithAttribute(name string, value any) Entity {
	attrs := make(map[string]any, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	attrs[name] = value
	return Entity{ID: e.ID, Attributes: attrs}
}

// Lookup implements internal/segment.Attributes, decoupling the segment
// evaluator from this package's Entity type.
func (e Entity) Lookup(name string) (any, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}
