// Package segment evaluates a catalog Segment's predicate rules against an
// entity's attributes.
package segment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/catalog"
)

// Attributes is the minimal view this package needs of an entity: a lookup
// from attribute name to its raw string/numeric/bool representation. The
// public façade's Entity type satisfies this interface directly, so
// segment never depends on the root package.
type Attributes interface {
	// Lookup returns the entity's value for name and whether it is present.
	// Absent attributes are not an error: the rule simply fails to match.
	Lookup(name string) (any, bool)
}

// Match reports whether every predicate rule of seg matches attrs (a
// segment matches only when ALL of its rules match — conjunction).
func Match(seg catalog.Segment, attrs Attributes) (bool, error) {
	for _, rule := range seg.Rules {
		matched, err := matchRule(rule, attrs)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func matchRule(rule catalog.SegmentRule, attrs Attributes) (bool, error) {
	value, ok := attrs.Lookup(rule.AttributeName)
	if !ok {
		return false, nil
	}

	for _, operand := range rule.Values {
		matched, err := matchOperand(rule.Operator, value, operand)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// matchOperand applies operator between the entity's attribute value and a
// single operand from the rule's OR'd values list.
func matchOperand(operator string, attrValue any, operand string) (bool, error) {
	switch operator {
	case "is":
		s, ok := toString(attrValue)
		return ok && s == operand, nil
	case "isNot":
		s, ok := toString(attrValue)
		return ok && s != operand, nil
	case "contains":
		s, ok := toString(attrValue)
		return ok && strings.Contains(s, operand), nil
	case "startsWith":
		s, ok := toString(attrValue)
		return ok && strings.HasPrefix(s, operand), nil
	case "endsWith":
		s, ok := toString(attrValue)
		return ok && strings.HasSuffix(s, operand), nil
	case "lesserThan":
		return numericCompare(attrValue, operand, func(a, b float64) bool { return a < b })
	case "lesserThanEquals":
		return numericCompare(attrValue, operand, func(a, b float64) bool { return a <= b })
	case "greaterThan":
		return numericCompare(attrValue, operand, func(a, b float64) bool { return a > b })
	case "greaterThanEquals":
		return numericCompare(attrValue, operand, func(a, b float64) bool { return a >= b })
	default:
		return false, fmt.Errorf("%w: unknown segment operator %q", apperr.ErrEvaluation, operator)
	}
}

func numericCompare(attrValue any, operand string, cmp func(a, b float64) bool) (bool, error) {
	a, ok := toFloat64(attrValue)
	if !ok {
		return false, fmt.Errorf("%w: attribute value %v is not numeric", apperr.ErrEvaluation, attrValue)
	}
	b, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		return false, fmt.Errorf("%w: operand %q is not numeric: %s", apperr.ErrEvaluation, operand, err)
	}
	return cmp(a, b), nil
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		return "", false
	}
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
