package appconfiguration

import "github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/snapshot"

// PropertySnapshot is the property analogue of FeatureSnapshot: a frozen
// view taken at a point in time.
type PropertySnapshot struct {
	inner *snapshot.PropertySnapshot
}

// Name returns the property's display name.
func (p PropertySnapshot) Name() string { return p.inner.Name() }

// Evaluate resolves this property's value for entity against the frozen
// catalog state captured at snapshot time.
func (p PropertySnapshot) Evaluate(entity Entity) (Value, error) {
	typed, err := p.inner.Evaluate(entity.ID, entity)
	if err != nil {
		return Value{}, err
	}
	return valueFromTyped(typed), nil
}

// PropertyProxy is the property analogue of FeatureProxy: a live view
// that re-reads the snapshot store on every call.
type PropertyProxy struct {
	inner *snapshot.PropertyProxy
}

// Name returns the property's current display name.
func (p PropertyProxy) Name() (string, error) { return p.inner.Name() }

// Evaluate resolves this property's current value for entity.
func (p PropertyProxy) Evaluate(entity Entity) (Value, error) {
	typed, err := p.inner.Evaluate(entity.ID, entity)
	if err != nil {
		return Value{}, err
	}
	return valueFromTyped(typed), nil
}
