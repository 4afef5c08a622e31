// =============================================================================
// CSV to IIF Converter - Transformation Module
// =============================================================================
//
// This module applies the department's transformation rules to source cells
// before they are mapped to IIF fields. Typical uses:
//   - Prefix account numbers with a parent account ("Expenses:")
//   - Translate legacy codes to chart-of-accounts names via a lookup table
//   - Flip the sign of credit-only amount columns
//   - Reformat dates into the department's configured layout
//
// Rules run in the order they are declared; actions within a rule run in
// order too, each one receiving the previous action's output.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
	"github.com/shopspring/decimal"
)

var (
	currencyChars = regexp.MustCompile(`[$€£¥,\s]`)
	whitespace    = regexp.MustCompile(`\s+`)
	conditionExpr = regexp.MustCompile(`^\s*(.+?)\s*(==|!=)\s*'(.*)'\s*$`)
)

// =============================================================================
// TRANSFORMER STRUCTURE
// =============================================================================

// Transformer applies transformation rules to rows.
type Transformer struct {
	rules   []config.TransformationRule
	regexes map[string]*regexp.Regexp
}

// NewTransformer checks every action and compiles regex patterns up front so
// a bad rule fails before any row is touched.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{rules: rules, regexes: make(map[string]*regexp.Regexp)}

	var check func(field string, actions []config.TransformationAction) error
	check = func(field string, actions []config.TransformationAction) error {
		for _, action := range actions {
			if _, ok := knownActions[action.Type]; !ok {
				return fmt.Errorf("field %q: unknown transformation type %q", field, action.Type)
			}
			if action.Type == "regex_replace" && action.Find != "" {
				re, err := regexp.Compile(action.Find)
				if err != nil {
					return fmt.Errorf("field %q: invalid regex pattern: %w", field, err)
				}
				t.regexes[action.Find] = re
			}
			if action.Type == "conditional" {
				if _, err := parseCondition(action.Condition); err != nil {
					return fmt.Errorf("field %q: %w", field, err)
				}
				if err := check(field, action.Then); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, rule := range rules {
		if err := check(rule.Field, rule.Actions); err != nil {
			return nil, err
		}
	}
	return t, nil
}

var knownActions = map[string]struct{}{
	"prepend_string": {}, "append_string": {}, "trim": {}, "trim_left": {},
	"trim_right": {}, "uppercase": {}, "lowercase": {}, "replace": {},
	"regex_replace": {}, "substring": {}, "pad_zeros_to_length": {},
	"pad_spaces_to_length": {}, "truncate": {}, "remove_leading_zeros": {}, "format_date": {},
	"negate": {}, "strip_currency": {}, "format_number": {}, "lookup": {},
	"lookup_with_default": {}, "default_if_empty": {}, "if_empty_use_field": {},
	"normalize_whitespace": {}, "conditional": {},
}

// TransformRow applies every rule to row in place. Rules for columns the
// row does not have are skipped.
func (t *Transformer) TransformRow(row *types.Row) error {
	for _, rule := range t.rules {
		value, exists := row.Fields[rule.Field]
		if !exists {
			continue
		}
		for _, action := range rule.Actions {
			var err error
			value, err = t.apply(value, action, row.Fields)
			if err != nil {
				return fmt.Errorf("row %d: field %q: transformation %q failed: %w",
					row.Number, rule.Field, action.Type, err)
			}
		}
		row.Fields[rule.Field] = value
	}
	return nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

func (t *Transformer) apply(value string, action config.TransformationAction, fields map[string]string) (string, error) {
	switch action.Type {
	case "regex_replace":
		if action.Find == "" {
			return value, nil
		}
		return t.regexes[action.Find].ReplaceAllString(value, action.Value), nil

	case "conditional":
		cond, err := parseCondition(action.Condition)
		if err != nil {
			return "", err
		}
		if !cond.holds(fields) {
			return value, nil
		}
		for _, then := range action.Then {
			if value, err = t.apply(value, then, fields); err != nil {
				return "", err
			}
		}
		return value, nil
	}

	return ApplyTransformation(value, action, fields)
}

// ApplyTransformation applies a single action to value. allFields gives
// access to the other cells of the row.
func ApplyTransformation(value string, action config.TransformationAction, allFields map[string]string) (string, error) {
	switch action.Type {
	// =========================================================================
	// STRING MANIPULATION
	// =========================================================================
	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "trim_left":
		if action.Value != "" {
			return strings.TrimLeft(value, action.Value), nil
		}
		return strings.TrimLeft(value, " \t\n\r"), nil

	case "trim_right":
		if action.Value != "" {
			return strings.TrimRight(value, action.Value), nil
		}
		return strings.TrimRight(value, " \t\n\r"), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "normalize_whitespace":
		return strings.TrimSpace(whitespace.ReplaceAllString(value, " ")), nil

	case "replace":
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		if action.Find == "" {
			return value, nil
		}
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.ReplaceAllString(value, action.Value), nil

	// =========================================================================
	// LENGTH MANIPULATION
	// =========================================================================
	case "substring":
		// Value is "start,end" in characters.
		parts := strings.Split(action.Value, ",")
		if len(parts) != 2 {
			return "", fmt.Errorf("substring expects \"start,end\", got %q", action.Value)
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("substring expects \"start,end\", got %q", action.Value)
		}
		runes := []rune(value)
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start >= end {
			return "", nil
		}
		return string(runes[start:end]), nil

	case "pad_zeros_to_length":
		n, err := positiveInt(action.Value)
		if err != nil {
			return "", err
		}
		return PadLeft(value, n, '0'), nil

	case "pad_spaces_to_length":
		n, err := positiveInt(action.Value)
		if err != nil {
			return "", err
		}
		return PadRight(value, n, ' '), nil

	case "truncate":
		n, err := positiveInt(action.Value)
		if err != nil {
			return "", err
		}
		if utf8.RuneCountInString(value) > n {
			return string([]rune(value)[:n]), nil
		}
		return value, nil

	case "remove_leading_zeros":
		result := strings.TrimLeft(value, "0")
		if result == "" && value != "" {
			return "0", nil
		}
		return result, nil

	// =========================================================================
	// DATES AND AMOUNTS
	// =========================================================================
	case "format_date":
		// Value is "input_layout|output_layout" in Go layout syntax.
		parts := strings.Split(action.Value, "|")
		if len(parts) != 2 {
			return "", fmt.Errorf("format_date expects \"input|output\", got %q", action.Value)
		}
		if strings.TrimSpace(value) == "" {
			return value, nil
		}
		parsed, err := time.Parse(strings.TrimSpace(parts[0]), strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("date %q does not match %q", value, parts[0])
		}
		return parsed.Format(strings.TrimSpace(parts[1])), nil

	case "strip_currency":
		stripped := currencyChars.ReplaceAllString(value, "")
		// Accounting negatives: (12.50) -> -12.50
		if strings.HasPrefix(stripped, "(") && strings.HasSuffix(stripped, ")") {
			stripped = "-" + strings.Trim(stripped, "()")
		}
		return stripped, nil

	case "negate":
		if strings.TrimSpace(value) == "" {
			return value, nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%q is not a decimal amount", value)
		}
		return d.Neg().String(), nil

	case "format_number":
		// Value is the number of decimal places; default 2.
		places := int32(iifutil.MoneyPlaces)
		if action.Value != "" {
			n, err := strconv.Atoi(action.Value)
			if err != nil || n < 0 {
				return "", fmt.Errorf("format_number expects a place count, got %q", action.Value)
			}
			places = int32(n)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return value, nil
		}
		return d.StringFixed(places), nil

	// =========================================================================
	// LOOKUPS AND DEFAULTS
	// =========================================================================
	case "lookup":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case "lookup_with_default":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return action.Value, nil

	case "default_if_empty":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	case "if_empty_use_field":
		if strings.TrimSpace(value) == "" {
			return allFields[action.Value], nil
		}
		return value, nil

	case "conditional":
		cond, err := parseCondition(action.Condition)
		if err != nil {
			return "", err
		}
		if !cond.holds(allFields) {
			return value, nil
		}
		for _, then := range action.Then {
			if value, err = ApplyTransformation(value, then, allFields); err != nil {
				return "", err
			}
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

type condition struct {
	column string
	op     string
	value  string
}

// parseCondition understands "<col> == 'v'", "<col> != 'v'", "<col> empty"
// and "<col> not_empty".
func parseCondition(text string) (condition, error) {
	text = strings.TrimSpace(text)
	if m := conditionExpr.FindStringSubmatch(text); m != nil {
		return condition{column: m[1], op: m[2], value: m[3]}, nil
	}
	for _, op := range []string{" not_empty", " empty"} {
		if strings.HasSuffix(text, op) {
			return condition{column: strings.TrimSpace(strings.TrimSuffix(text, op)), op: strings.TrimSpace(op)}, nil
		}
	}
	return condition{}, fmt.Errorf("unsupported condition %q", text)
}

func (c condition) holds(fields map[string]string) bool {
	v := fields[c.column]
	switch c.op {
	case "==":
		return v == c.value
	case "!=":
		return v != c.value
	case "empty":
		return strings.TrimSpace(v) == ""
	default:
		return strings.TrimSpace(v) != ""
	}
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive length, got %q", s)
	}
	return n, nil
}

// PadLeft pads s on the left with padChar up to length characters.
func PadLeft(s string, length int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}

// PadRight pads s on the right with padChar up to length characters.
func PadRight(s string, length int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(string(padChar), length-n)
}
