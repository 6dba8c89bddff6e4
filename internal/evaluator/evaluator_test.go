package evaluator

import (
	"errors"
	"testing"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/catalog"
)

type mapAttrs map[string]any

func (m mapAttrs) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

func goldSegments() map[string]catalog.Segment {
	return map[string]catalog.Segment{
		"gold": {
			ID: "gold",
			Rules: []catalog.SegmentRule{
				{AttributeName: "plan", Operator: "is", Values: []string{"gold"}},
			},
		},
	}
}

func u32(v uint32) *uint32 { return &v }

func TestEvaluateFeature_Disabled(t *testing.T) {
	f := catalog.Feature{
		ID: "f1", Kind: catalog.Numeric, Enabled: false,
		EnabledValue: catalog.NewRawValue(int64(1)), DisabledValue: catalog.NewRawValue(int64(0)),
		RolloutPercentage: 100,
	}
	got, err := EvaluateFeature(f, nil, "entity-1", mapAttrs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int64 != 0 {
		t.Fatalf("expected disabled value 0, got %+v", got)
	}
}

func TestEvaluateFeature_RuleMatch_NoPerRuleRollout(t *testing.T) {
	f := catalog.Feature{
		ID: "f1", Kind: catalog.String, Enabled: true,
		EnabledValue:  catalog.NewRawValue("enabled"),
		DisabledValue: catalog.NewRawValue("disabled"),
		Rules: []catalog.TargetingRule{
			{Order: 1, Groups: []catalog.SegmentGroup{{SegmentIDs: []string{"gold"}}}, Value: catalog.NewRawValue("gold-tier")},
		},
		RolloutPercentage: 100,
	}
	got, err := EvaluateFeature(f, goldSegments(), "entity-1", mapAttrs{"plan": "gold"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String != "gold-tier" {
		t.Fatalf("expected gold-tier, got %+v", got)
	}
}

func TestEvaluateFeature_RuleMatch_DefaultSentinel(t *testing.T) {
	f := catalog.Feature{
		ID: "f1", Kind: catalog.String, Enabled: true,
		EnabledValue:  catalog.NewRawValue("enabled"),
		DisabledValue: catalog.NewRawValue("disabled"),
		Rules: []catalog.TargetingRule{
			{Order: 1, Groups: []catalog.SegmentGroup{{SegmentIDs: []string{"gold"}}}, Value: catalog.NewRawValue("$default")},
		},
		RolloutPercentage: 100,
	}
	got, err := EvaluateFeature(f, goldSegments(), "entity-1", mapAttrs{"plan": "gold"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String != "enabled" {
		t.Fatalf("expected $default to resolve to enabled value, got %+v", got)
	}
}

func TestEvaluateFeature_RuleMatch_PerRuleRolloutExcluded(t *testing.T) {
	f := catalog.Feature{
		ID: "f1", Kind: catalog.String, Enabled: true,
		EnabledValue:  catalog.NewRawValue("enabled"),
		DisabledValue: catalog.NewRawValue("disabled"),
		Rules: []catalog.TargetingRule{
			{Order: 1, Groups: []catalog.SegmentGroup{{SegmentIDs: []string{"gold"}}}, Value: catalog.NewRawValue("gold-tier"), RolloutPercentage: u32(0)},
		},
		RolloutPercentage: 100,
	}
	got, err := EvaluateFeature(f, goldSegments(), "entity-1", mapAttrs{"plan": "gold"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String != "enabled" {
		t.Fatalf("expected per-rule rollout exclusion to fall back to enabled value, got %+v", got)
	}
}

func TestEvaluateFeature_NoRuleMatch_GlobalRollout(t *testing.T) {
	f := catalog.Feature{
		ID: "f1", Kind: catalog.String, Enabled: true,
		EnabledValue:      catalog.NewRawValue("enabled"),
		DisabledValue:     catalog.NewRawValue("disabled"),
		RolloutPercentage: 0,
	}
	got, err := EvaluateFeature(f, goldSegments(), "entity-1", mapAttrs{"plan": "silver"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String != "disabled" {
		t.Fatalf("expected disabled value at rollout=0, got %+v", got)
	}
}

func TestEvaluateFeature_UnknownSegmentReference(t *testing.T) {
	f := catalog.Feature{
		ID: "f1", Kind: catalog.String, Enabled: true,
		EnabledValue:  catalog.NewRawValue("enabled"),
		DisabledValue: catalog.NewRawValue("disabled"),
		Rules: []catalog.TargetingRule{
			{Order: 1, Groups: []catalog.SegmentGroup{{SegmentIDs: []string{"missing"}}}, Value: catalog.NewRawValue("x")},
		},
	}
	_, err := EvaluateFeature(f, map[string]catalog.Segment{}, "entity-1", mapAttrs{})
	if !errors.Is(err, apperr.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}

func TestEvaluateProperty_DefaultAndRuleMatch(t *testing.T) {
	p := catalog.Property{
		ID: "p1", Kind: catalog.Numeric, Value: catalog.NewRawValue(int64(1)),
		Rules: []catalog.TargetingRule{
			{Order: 1, Groups: []catalog.SegmentGroup{{SegmentIDs: []string{"gold"}}}, Value: catalog.NewRawValue(int64(99))},
		},
	}
	got, err := EvaluateProperty(p, goldSegments(), mapAttrs{"plan": "gold"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int64 != 99 {
		t.Fatalf("expected rule value 99, got %+v", got)
	}

	got, err = EvaluateProperty(p, goldSegments(), mapAttrs{"plan": "silver"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int64 != 1 {
		t.Fatalf("expected default value 1, got %+v", got)
	}
}

func TestTypeValue_MismatchedKind(t *testing.T) {
	f := catalog.Feature{
		ID: "f1", Kind: catalog.Numeric, Enabled: false,
		DisabledValue: catalog.NewRawValue("not-a-number"),
	}
	_, err := EvaluateFeature(f, nil, "entity-1", mapAttrs{})
	if !errors.Is(err, apperr.ErrMismatchType) {
		t.Fatalf("expected ErrMismatchType, got %v", err)
	}
}
