package snapshot

import (
	"fmt"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/catalog"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/evaluator"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/segment"
)

// referencedSegments collects, from a resource's targeting rules, the
// subset of the catalog's segments that resource can possibly reference.
func referencedSegments(cat *catalog.Catalog, rules []catalog.TargetingRule) (map[string]catalog.Segment, error) {
	out := make(map[string]catalog.Segment)
	for _, rule := range rules {
		for _, group := range rule.Groups {
			for _, id := range group.SegmentIDs {
				if _, ok := out[id]; ok {
					continue
				}
				seg, ok := cat.Segments[id]
				if !ok {
					return nil, fmt.Errorf("%w: rule references segment %q", apperr.ErrIntegrity, id)
				}
				out[id] = seg
			}
		}
	}
	return out, nil
}

// FeatureSnapshot is a frozen view over one feature: since a Catalog is
// never mutated after construction (only ever replaced wholesale), holding
// the feature value and its referenced segments is sufficient to freeze it
// against later Store replacements — no later Install can reach back and
// change the Catalog this snapshot was taken from.
type FeatureSnapshot struct {
	feature  catalog.Feature
	segments map[string]catalog.Segment
}

// NewFeatureSnapshot takes a frozen view of the named feature from cat.
func NewFeatureSnapshot(cat *catalog.Catalog, featureID string) (*FeatureSnapshot, error) {
	f, ok := cat.Features[featureID]
	if !ok {
		return nil, fmt.Errorf("%w: feature %q", apperr.ErrUnknownResource, featureID)
	}
	segs, err := referencedSegments(cat, f.Rules)
	if err != nil {
		return nil, err
	}
	return &FeatureSnapshot{feature: f, segments: segs}, nil
}

func (s *FeatureSnapshot) Name() string { return s.feature.Name }

func (s *FeatureSnapshot) IsEnabled() bool { return s.feature.Enabled }

// Evaluate resolves this feature's value for entityID against the frozen
// catalog state captured at snapshot time.
func (s *FeatureSnapshot) Evaluate(entityID string, attrs segment.Attributes) (evaluator.Typed, error) {
	return evaluator.EvaluateFeature(s.feature, s.segments, entityID, attrs)
}

// PropertySnapshot is the property analogue of FeatureSnapshot.
type PropertySnapshot struct {
	property catalog.Property
	segments map[string]catalog.Segment
}

func NewPropertySnapshot(cat *catalog.Catalog, propertyID string) (*PropertySnapshot, error) {
	p, ok := cat.Properties[propertyID]
	if !ok {
		return nil, fmt.Errorf("%w: property %q", apperr.ErrUnknownResource, propertyID)
	}
	segs, err := referencedSegments(cat, p.Rules)
	if err != nil {
		return nil, err
	}
	return &PropertySnapshot{property: p, segments: segs}, nil
}

func (s *PropertySnapshot) Name() string { return s.property.Name }

func (s *PropertySnapshot) Evaluate(entityID string, attrs segment.Attributes) (evaluator.Typed, error) {
	return evaluator.EvaluateProperty(s.property, s.segments, attrs)
}

// FeatureProxy is a live view over one feature: every call re-reads the
// store, so evaluation always reflects whatever catalog is current at call
// time, including one installed after the proxy was obtained.
type FeatureProxy struct {
	store     *Store
	featureID string
}

func NewFeatureProxy(store *Store, featureID string) *FeatureProxy {
	return &FeatureProxy{store: store, featureID: featureID}
}

func (p *FeatureProxy) resolve() (catalog.Feature, map[string]catalog.Segment, error) {
	cat, err := p.store.Read()
	if err != nil {
		return catalog.Feature{}, nil, err
	}
	f, ok := cat.Features[p.featureID]
	if !ok {
		return catalog.Feature{}, nil, fmt.Errorf("%w: feature %q", apperr.ErrUnknownResource, p.featureID)
	}
	segs, err := referencedSegments(cat, f.Rules)
	if err != nil {
		return catalog.Feature{}, nil, err
	}
	return f, segs, nil
}

func (p *FeatureProxy) Name() (string, error) {
	f, _, err := p.resolve()
	if err != nil {
		return "", err
	}
	return f.Name, nil
}

func (p *FeatureProxy) IsEnabled() (bool, error) {
	f, _, err := p.resolve()
	if err != nil {
		return false, err
	}
	return f.Enabled, nil
}

func (p *FeatureProxy) Evaluate(entityID string, attrs segment.Attributes) (evaluator.Typed, error) {
	f, segs, err := p.resolve()
	if err != nil {
		return evaluator.Typed{}, err
	}
	return evaluator.EvaluateFeature(f, segs, entityID, attrs)
}

// PropertyProxy is the property analogue of FeatureProxy.
type PropertyProxy struct {
	store      *Store
	propertyID string
}

func NewPropertyProxy(store *Store, propertyID string) *PropertyProxy {
	return &PropertyProxy{store: store, propertyID: propertyID}
}

func (p *PropertyProxy) resolve() (catalog.Property, map[string]catalog.Segment, error) {
	cat, err := p.store.Read()
	if err != nil {
		return catalog.Property{}, nil, err
	}
	prop, ok := cat.Properties[p.propertyID]
	if !ok {
		return catalog.Property{}, nil, fmt.Errorf("%w: property %q", apperr.ErrUnknownResource, p.propertyID)
	}
	segs, err := referencedSegments(cat, prop.Rules)
	if err != nil {
		return catalog.Property{}, nil, err
	}
	return prop, segs, nil
}

func (p *PropertyProxy) Name() (string, error) {
	prop, _, err := p.resolve()
	if err != nil {
		return "", err
	}
	return prop.Name, nil
}

func (p *PropertyProxy) Evaluate(entityID string, attrs segment.Attributes) (evaluator.Typed, error) {
	prop, segs, err := p.resolve()
	if err != nil {
		return evaluator.Typed{}, err
	}
	return evaluator.EvaluateProperty(prop, segs, attrs)
}
