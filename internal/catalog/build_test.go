package catalog

import (
	"errors"
	"testing"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
)

func docFixture() *Document {
	return &Document{
		Environments: []environmentDoc{
			{
				EnvironmentID: "production",
				Name:          "Production",
				Features: []featureDoc{
					{
						FeatureID:         "f1",
						Name:              "F1",
						Type:              "NUMERIC",
						Enabled:           true,
						EnabledValue:      rawJSON(`42`),
						DisabledValue:     rawJSON(`-42`),
						RolloutPercentage: 100,
					},
				},
				Properties: []propertyDoc{
					{
						PropertyID: "p1",
						Name:       "P1",
						Type:       "NUMERIC",
						Value:      rawJSON(`7`),
					},
				},
			},
		},
		Segments: []segmentDoc{
			{SegmentID: "gold-users", Name: "Gold", Rules: []segmentRuleDoc{
				{AttributeName: "plan", Operator: "is", Values: []string{"gold"}},
			}},
		},
	}
}

func rawJSON(s string) []byte { return []byte(s) }

func TestBuild_Success(t *testing.T) {
	cat, err := Build(docFixture(), "production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.EnvironmentID != "production" {
		t.Fatalf("environment id = %q", cat.EnvironmentID)
	}
	if _, ok := cat.Features["f1"]; !ok {
		t.Fatal("expected feature f1")
	}
	if _, ok := cat.Properties["p1"]; !ok {
		t.Fatal("expected property p1")
	}
}

func TestBuild_MissingEnvironment(t *testing.T) {
	_, err := Build(docFixture(), "staging")
	if !errors.Is(err, apperr.ErrMissingEnvironment) {
		t.Fatalf("expected ErrMissingEnvironment, got %v", err)
	}
}

func TestBuild_DuplicateEnvironment(t *testing.T) {
	doc := docFixture()
	doc.Environments = append(doc.Environments, doc.Environments[0])
	_, err := Build(doc, "production")
	if !errors.Is(err, apperr.ErrMissingEnvironment) {
		t.Fatalf("expected ErrMissingEnvironment on ambiguous match, got %v", err)
	}
}

func TestBuild_MissingSegmentIntegrity(t *testing.T) {
	doc := docFixture()
	doc.Environments[0].Features[0].SegmentRules = []targetingRuleDoc{
		{
			Order: 1,
			Rules: []segmentsDoc{{Segments: []string{"does-not-exist"}}},
			Value: rawJSON(`99`),
		},
	}
	_, err := Build(doc, "production")
	if !errors.Is(err, apperr.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}

func TestBuild_InvalidRolloutPercentage(t *testing.T) {
	doc := docFixture()
	doc.Environments[0].Features[0].RolloutPercentage = 150
	_, err := Build(doc, "production")
	if !errors.Is(err, apperr.ErrInvalidRollout) {
		t.Fatalf("expected ErrInvalidRollout, got %v", err)
	}
}

func TestBuild_DuplicateRuleOrder(t *testing.T) {
	doc := docFixture()
	doc.Environments[0].Features[0].SegmentRules = []targetingRuleDoc{
		{Order: 1, Rules: []segmentsDoc{{Segments: []string{"gold-users"}}}, Value: rawJSON(`1`)},
		{Order: 1, Rules: []segmentsDoc{{Segments: []string{"gold-users"}}}, Value: rawJSON(`2`)},
	}
	_, err := Build(doc, "production")
	if !errors.Is(err, apperr.ErrProtocol) {
		t.Fatalf("expected ErrProtocol for duplicate order, got %v", err)
	}
}

func TestBuild_RulesSortedByOrder(t *testing.T) {
	doc := docFixture()
	doc.Environments[0].Features[0].SegmentRules = []targetingRuleDoc{
		{Order: 3, Rules: []segmentsDoc{{Segments: []string{"gold-users"}}}, Value: rawJSON(`3`)},
		{Order: 1, Rules: []segmentsDoc{{Segments: []string{"gold-users"}}}, Value: rawJSON(`1`)},
		{Order: 2, Rules: []segmentsDoc{{Segments: []string{"gold-users"}}}, Value: rawJSON(`2`)},
	}
	cat, err := Build(doc, "production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rules := cat.Features["f1"].Rules
	for i, r := range rules {
		if int(r.Order) != i+1 {
			t.Fatalf("rules not sorted: got order %d at index %d", r.Order, i)
		}
	}
}

func TestParseDocument_InvalidJSON(t *testing.T) {
	_, err := ParseDocument([]byte("not json"))
	if !errors.Is(err, apperr.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
}
