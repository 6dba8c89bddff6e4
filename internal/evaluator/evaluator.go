// Package evaluator resolves a Feature or Property to a typed Value for one
// entity by walking targeting rules, testing segment membership, and
// applying rollout gating.
package evaluator

import (
	"fmt"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/catalog"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/rollout"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/segment"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/telemetry"
)

// Variant is the concrete primitive shape a NUMERIC value resolved to,
// chosen by the narrowing rule: signed int, then unsigned int, then
// float. BOOLEAN and STRING resources always resolve to the matching
// fixed variant.
type Variant string

const (
	VariantInt64   Variant = "int64"
	VariantUInt64  Variant = "uint64"
	VariantFloat64 Variant = "float64"
	VariantBool    Variant = "bool"
	VariantString  Variant = "string"
)

// Typed is the narrow set of primitive shapes a resolved catalog.RawValue
// may be coerced to. The façade's Value wraps exactly these.
type Typed struct {
	Variant Variant
	Int64   int64
	UInt64  uint64
	Float64 float64
	Bool    bool
	String  string
}

// EvaluateFeature implements the feature evaluation order:
//  1. disabled -> DisabledValue
//  2. first matching rule (ascending order) -> rule value, gated by its
//     own rollout percentage if present
//  3. no rule matched -> global rollout percentage gates Enabled/Disabled value
func EvaluateFeature(f catalog.Feature, segments map[string]catalog.Segment, entityID string, attrs segment.Attributes) (result Typed, err error) {
	defer func() {
		if err != nil {
			telemetry.EvaluationErrors.WithLabelValues("feature").Inc()
		}
	}()

	if !f.Enabled {
		return typeValue(f.Kind, f.DisabledValue)
	}

	for _, rule := range f.Rules {
		matched, merr := anySegmentMatches(rule, segments, attrs)
		if merr != nil {
			return Typed{}, merr
		}
		if !matched {
			continue
		}

		if rule.RolloutPercentage != nil {
			if rollout.IsIncluded(entityID, f.ID, *rule.RolloutPercentage) {
				return resolveRuleValue(f.Kind, rule.Value, f.EnabledValue)
			}
			return typeValue(f.Kind, f.EnabledValue)
		}
		return resolveRuleValue(f.Kind, rule.Value, f.EnabledValue)
	}

	if rollout.IsIncluded(entityID, f.ID, f.RolloutPercentage) {
		return typeValue(f.Kind, f.EnabledValue)
	}
	return typeValue(f.Kind, f.DisabledValue)
}

// EvaluateProperty implements the property evaluation order: same rule
// walk as features, but no enabled/disabled dichotomy and no rollout on
// the default path. Rollout fields on property rules are ignored.
func EvaluateProperty(p catalog.Property, segments map[string]catalog.Segment, attrs segment.Attributes) (result Typed, err error) {
	defer func() {
		if err != nil {
			telemetry.EvaluationErrors.WithLabelValues("property").Inc()
		}
	}()

	for _, rule := range p.Rules {
		matched, merr := anySegmentMatches(rule, segments, attrs)
		if merr != nil {
			return Typed{}, merr
		}
		if !matched {
			continue
		}
		return resolveRuleValue(p.Kind, rule.Value, p.Value)
	}
	return typeValue(p.Kind, p.Value)
}

// anySegmentMatches reports whether the entity belongs to any segment in
// any of the rule's segment-id groups — a disjunction of a disjunction:
// each group lists segment ids that are OR'd, and the rule's groups are
// themselves OR'd.
func anySegmentMatches(rule catalog.TargetingRule, segments map[string]catalog.Segment, attrs segment.Attributes) (bool, error) {
	for _, group := range rule.Groups {
		for _, segID := range group.SegmentIDs {
			seg, ok := segments[segID]
			if !ok {
				return false, fmt.Errorf("%w: rule references segment %q", apperr.ErrIntegrity, segID)
			}
			matched, err := segment.Match(seg, attrs)
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		}
	}
	return false, nil
}

// resolveRuleValue applies the "$default" sentinel substitution: a
// targeted value that literally equals "$default" is replaced by the
// resource's own default-path value (enabled_value for features, value
// for properties).
func resolveRuleValue(kind catalog.ValueKind, ruleValue, defaultValue catalog.RawValue) (Typed, error) {
	if ruleValue.IsDefaultSentinel() {
		return typeValue(kind, defaultValue)
	}
	return typeValue(kind, ruleValue)
}

// typeValue coerces a raw catalog value to its declared ValueKind. For
// NUMERIC it prefers the narrowest exact representation: signed int,
// unsigned int, float.
func typeValue(kind catalog.ValueKind, raw catalog.RawValue) (Typed, error) {
	switch kind {
	case catalog.Numeric:
		if i, ok := raw.AsInt64(); ok {
			return Typed{Variant: VariantInt64, Int64: i}, nil
		}
		if u, ok := raw.AsUint64(); ok {
			return Typed{Variant: VariantUInt64, UInt64: u}, nil
		}
		if f, ok := raw.AsFloat64(); ok {
			return Typed{Variant: VariantFloat64, Float64: f}, nil
		}
		return Typed{}, fmt.Errorf("%w: value is not numeric", apperr.ErrMismatchType)
	case catalog.Boolean:
		if b, ok := raw.AsBool(); ok {
			return Typed{Variant: VariantBool, Bool: b}, nil
		}
		return Typed{}, fmt.Errorf("%w: value is not boolean", apperr.ErrMismatchType)
	case catalog.String:
		if s, ok := raw.AsString(); ok {
			return Typed{Variant: VariantString, String: s}, nil
		}
		return Typed{}, fmt.Errorf("%w: value is not a string", apperr.ErrMismatchType)
	default:
		return Typed{}, fmt.Errorf("%w: unrecognised value kind %q", apperr.ErrProtocol, kind)
	}
}
