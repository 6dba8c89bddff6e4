package catalog

import (
	"fmt"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
)

// Build validates a decoded Document against the configured environment id
// and turns it into an immutable Catalog. It enforces:
//   - exactly one environment block matches environmentID
//   - every segment_id named by any targeting rule resolves in the segment map
//   - rollout_percentage fields lie in [0, 100]
//   - TargetingRule.order values within one resource are unique
func Build(doc *Document, environmentID string) (*Catalog, error) {
	env, err := selectEnvironment(doc.Environments, environmentID)
	if err != nil {
		return nil, err
	}

	segments := make(map[string]Segment, len(doc.Segments))
	for _, s := range doc.Segments {
		rules := make([]SegmentRule, 0, len(s.Rules))
		for _, r := range s.Rules {
			rules = append(rules, SegmentRule{
				AttributeName: r.AttributeName,
				Operator:      r.Operator,
				Values:        r.Values,
			})
		}
		segments[s.SegmentID] = Segment{ID: s.SegmentID, Name: s.Name, Rules: rules}
	}

	features := make(map[string]Feature, len(env.Features))
	for _, f := range env.Features {
		feature, err := buildFeature(f)
		if err != nil {
			return nil, err
		}
		features[feature.ID] = feature
	}

	properties := make(map[string]Property, len(env.Properties))
	for _, p := range env.Properties {
		property, err := buildProperty(p)
		if err != nil {
			return nil, err
		}
		properties[property.ID] = property
	}

	cat := &Catalog{
		EnvironmentID: environmentID,
		Features:      features,
		Properties:    properties,
		Segments:      segments,
	}

	if err := checkSegmentIntegrity(cat); err != nil {
		return nil, err
	}

	return cat, nil
}

func selectEnvironment(envs []environmentDoc, environmentID string) (*environmentDoc, error) {
	var match *environmentDoc
	count := 0
	for i := range envs {
		if envs[i].EnvironmentID == environmentID {
			match = &envs[i]
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("%w: %q (matched %d environment blocks)", apperr.ErrMissingEnvironment, environmentID, count)
	}
	return match, nil
}

func buildFeature(f featureDoc) (Feature, error) {
	kind, err := parseValueKind(f.Type)
	if err != nil {
		return Feature{}, fmt.Errorf("feature %q: %w", f.FeatureID, err)
	}
	enabledValue, err := decodeRawValue(f.EnabledValue)
	if err != nil {
		return Feature{}, fmt.Errorf("feature %q enabled_value: %w", f.FeatureID, err)
	}
	disabledValue, err := decodeRawValue(f.DisabledValue)
	if err != nil {
		return Feature{}, fmt.Errorf("feature %q disabled_value: %w", f.FeatureID, err)
	}
	if f.RolloutPercentage > 100 {
		return Feature{}, fmt.Errorf("feature %q: %w: %d", f.FeatureID, apperr.ErrInvalidRollout, f.RolloutPercentage)
	}

	rules, err := buildTargetingRules(f.FeatureID, f.SegmentRules)
	if err != nil {
		return Feature{}, err
	}

	return Feature{
		ID:                f.FeatureID,
		Name:              f.Name,
		Kind:              kind,
		Enabled:           f.Enabled,
		EnabledValue:      enabledValue,
		DisabledValue:     disabledValue,
		Rules:             rules,
		RolloutPercentage: f.RolloutPercentage,
	}, nil
}

func buildProperty(p propertyDoc) (Property, error) {
	kind, err := parseValueKind(p.Type)
	if err != nil {
		return Property{}, fmt.Errorf("property %q: %w", p.PropertyID, err)
	}
	value, err := decodeRawValue(p.Value)
	if err != nil {
		return Property{}, fmt.Errorf("property %q value: %w", p.PropertyID, err)
	}

	rules, err := buildTargetingRules(p.PropertyID, p.SegmentRules)
	if err != nil {
		return Property{}, err
	}

	return Property{
		ID:    p.PropertyID,
		Name:  p.Name,
		Kind:  kind,
		Value: value,
		Rules: rules,
	}, nil
}

func buildTargetingRules(resourceID string, docs []targetingRuleDoc) ([]TargetingRule, error) {
	rules := make([]TargetingRule, 0, len(docs))
	seenOrders := make(map[uint32]struct{}, len(docs))
	for _, rd := range docs {
		if _, dup := seenOrders[rd.Order]; dup {
			return nil, fmt.Errorf("resource %q: %w: duplicate rule order %d", resourceID, apperr.ErrProtocol, rd.Order)
		}
		seenOrders[rd.Order] = struct{}{}

		value, err := decodeRawValue(rd.Value)
		if err != nil {
			return nil, fmt.Errorf("resource %q rule order %d: %w", resourceID, rd.Order, err)
		}

		var rollout *uint32
		if rd.RolloutPercentage != nil {
			if *rd.RolloutPercentage > 100 {
				return nil, fmt.Errorf("resource %q rule order %d: %w: %d", resourceID, rd.Order, apperr.ErrInvalidRollout, *rd.RolloutPercentage)
			}
			v := *rd.RolloutPercentage
			rollout = &v
		}

		groups := make([]SegmentGroup, 0, len(rd.Rules))
		for _, g := range rd.Rules {
			groups = append(groups, SegmentGroup{SegmentIDs: g.Segments})
		}

		rules = append(rules, TargetingRule{
			Order:             rd.Order,
			Groups:            groups,
			Value:             value,
			RolloutPercentage: rollout,
		})
	}

	sortRulesByOrder(rules)
	return rules, nil
}

func sortRulesByOrder(rules []TargetingRule) {
	for i := 1; i < len(rules); i++ {
		for j := i; j > 0 && rules[j-1].Order > rules[j].Order; j-- {
			rules[j-1], rules[j] = rules[j], rules[j-1]
		}
	}
}

func parseValueKind(raw string) (ValueKind, error) {
	switch ValueKind(raw) {
	case Numeric, Boolean, String:
		return ValueKind(raw), nil
	default:
		return "", fmt.Errorf("%w: unrecognised value kind %q", apperr.ErrProtocol, raw)
	}
}

// checkSegmentIntegrity ensures every segment_id named by any targeting
// rule of any retained feature/property resolves in the catalog's segment
// map.
func checkSegmentIntegrity(cat *Catalog) error {
	check := func(resourceID string, rules []TargetingRule) error {
		for _, rule := range rules {
			for _, group := range rule.Groups {
				for _, segID := range group.SegmentIDs {
					if _, ok := cat.Segments[segID]; !ok {
						return fmt.Errorf("%w: resource %q references segment %q", apperr.ErrIntegrity, resourceID, segID)
					}
				}
			}
		}
		return nil
	}

	for id, f := range cat.Features {
		if err := check(id, f.Rules); err != nil {
			return err
		}
	}
	for id, p := range cat.Properties {
		if err := check(id, p.Rules); err != nil {
			return err
		}
	}
	return nil
}
