package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
)

// Document mirrors the wire shape of a pulled catalog document: a list of
// environment blocks plus a flat list of segments shared across all
// environments.
type Document struct {
	Environments []environmentDoc `json:"environments"`
	Segments     []segmentDoc     `json:"segments"`
}

type environmentDoc struct {
	EnvironmentID string       `json:"environment_id"`
	Name          string       `json:"name"`
	Features      []featureDoc `json:"features"`
	Properties    []propertyDoc `json:"properties"`
}

type segmentDoc struct {
	SegmentID   string          `json:"segment_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tags        string          `json:"tags"`
	Rules       []segmentRuleDoc `json:"rules"`
}

type segmentRuleDoc struct {
	AttributeName string   `json:"attribute_name"`
	Operator      string   `json:"operator"`
	Values        []string `json:"values"`
}

type featureDoc struct {
	FeatureID         string              `json:"feature_id"`
	Name              string              `json:"name"`
	Type              string              `json:"type"`
	Enabled           bool                `json:"enabled"`
	EnabledValue      json.RawMessage     `json:"enabled_value"`
	DisabledValue     json.RawMessage     `json:"disabled_value"`
	SegmentRules      []targetingRuleDoc  `json:"segment_rules"`
	RolloutPercentage uint32              `json:"rollout_percentage"`
}

type propertyDoc struct {
	PropertyID   string             `json:"property_id"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	Value        json.RawMessage    `json:"value"`
	SegmentRules []targetingRuleDoc `json:"segment_rules"`
}

type targetingRuleDoc struct {
	Order             uint32           `json:"order"`
	Rules             []segmentsDoc    `json:"rules"`
	Value             json.RawMessage  `json:"value"`
	RolloutPercentage *uint32          `json:"rollout_percentage,omitempty"`
}

type segmentsDoc struct {
	Segments []string `json:"segments"`
}

// ParseDocument decodes a catalog document from its JSON wire form.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding catalog document: %s", apperr.ErrProtocol, err)
	}
	return &doc, nil
}

func decodeRawValue(raw json.RawMessage) (RawValue, error) {
	if len(raw) == 0 {
		return RawValue{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return RawValue{}, fmt.Errorf("%w: decoding value: %s", apperr.ErrProtocol, err)
	}
	return NewRawValue(normalizeJSONNumber(v)), nil
}

// normalizeJSONNumber turns a json.Number into int64, uint64 or float64,
// preferring the narrowest exact representation: signed, then unsigned,
// then float.
func normalizeJSONNumber(v any) any {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
		return u
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}
