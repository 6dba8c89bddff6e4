package appconfiguration

import "github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/snapshot"

// FeatureSnapshot is a frozen view over one feature, taken at a point in
// time: later catalog replacements never affect values already read
// through it.
type FeatureSnapshot struct {
	inner *snapshot.FeatureSnapshot
}

// Name returns the feature's display name.
func (f FeatureSnapshot) Name() string { return f.inner.Name() }

// IsEnabled reports the feature's enabled flag as it stood when this
// snapshot was taken.
func (f FeatureSnapshot) IsEnabled() bool { return f.inner.IsEnabled() }

// Evaluate resolves this feature's value for entity against the frozen
// catalog state captured at snapshot time.
func (f FeatureSnapshot) Evaluate(entity Entity) (Value, error) {
	typed, err := f.inner.Evaluate(entity.ID, entity)
	if err != nil {
		return Value{}, err
	}
	return valueFromTyped(typed), nil
}

// FeatureProxy is a live view over one feature: every call re-reads the
// snapshot store, so evaluation always reflects the latest installed
// catalog.
type FeatureProxy struct {
	inner *snapshot.FeatureProxy
}

// Name returns the feature's current display name.
func (f FeatureProxy) Name() (string, error) { return f.inner.Name() }

// IsEnabled reports the feature's current enabled flag.
func (f FeatureProxy) IsEnabled() (bool, error) { return f.inner.IsEnabled() }

// Evaluate resolves this feature's current value for entity.
func (f FeatureProxy) Evaluate(entity Entity) (Value, error) {
	typed, err := f.inner.Evaluate(entity.ID, entity)
	if err != nil {
		return Value{}, err
	}
	return valueFromTyped(typed), nil
}
