package eppo

import (
	"time"

	"github.com/Eppo-exp/eppo-go-sdk/eppovalue"
	"github.com/Eppo-exp/eppo-go-sdk/internal/eval"
	"github.com/Eppo-exp/eppo-go-sdk/internal/rules"
	"github.com/Eppo-exp/eppo-go-sdk/internal/wire"
)

// AllocationTrace mirrors eval.AllocationTrace for the public API, keeping
// internal/eval out of this package's exported surface.
type AllocationTrace struct {
	Key           string
	Code          string
	OrderPosition int
}

// Detail is the "assignment details" variant's return shape (spec.md §4.4,
// §4.8): the evaluation trace plus the reason an assignment did or didn't
// resolve.
type Detail struct {
	Matched           bool
	VariationKey      string
	MatchedAllocation string
	Reason            string
	AllocationTraces  []AllocationTrace
}

func newDetail(d eval.Detail) Detail {
	traces := make([]AllocationTrace, len(d.AllocationTraces))
	for i, t := range d.AllocationTraces {
		traces[i] = AllocationTrace{Key: t.Key, Code: string(t.Code), OrderPosition: t.OrderPosition}
	}
	return Detail{
		Matched:           d.Matched,
		VariationKey:      d.VariationKey,
		MatchedAllocation: d.MatchedAllocation,
		Reason:            string(d.Reason),
		AllocationTraces:  traces,
	}
}

// evaluateTyped runs the full assignment pipeline for one typed accessor
// call: configuration lookup, flag lookup (obfuscation-aware), the
// requested-type precheck (spec.md §4.4 "Typed projection" — TypeMismatch
// is a façade-level check against the flag's declared variationType,
// distinct from eval's AssignmentError, which is a mismatch between the
// declared type and the matched variation's actual value), primary
// evaluation, and log-gating on a match.
func (c *Client) evaluateTyped(
	flagKey, subjectKey string,
	attributes map[string]interface{},
	requestedType wire.VariationType,
) (eppovalue.Value, eval.Detail) {
	cfg := c.store.Current()
	if cfg == nil {
		return eppovalue.Null(), eval.Detail{Reason: eval.ReasonNone}
	}

	lookupKey := c.lookupFlagKey(cfg, flagKey)
	flag, ok := cfg.Flag(lookupKey)
	if !ok {
		return eppovalue.Null(), eval.Detail{Reason: eval.ReasonFlagUnrecognizedOrDisabled}
	}
	if flag.VariationType != requestedType {
		return eppovalue.Null(), eval.Detail{Reason: eval.ReasonTypeMismatch}
	}

	attrs := rules.FromNative(attributes)
	detail := eval.Evaluate(flag, subjectKey, attrs, c.nowFunc(), cfg.Obfuscated)
	if !detail.Matched {
		return eppovalue.Null(), detail
	}

	if detail.DoLog {
		c.maybeLog(flagKey, subjectKey, attributes, detail)
	}
	return detail.Value, detail
}

func (c *Client) maybeLog(flagKey, subjectKey string, attributes map[string]interface{}, detail eval.Detail) {
	if c.assignmentLogger == nil {
		return
	}
	if c.assignmentCache != nil && !c.assignmentCache.ShouldLog(subjectKey, flagKey, detail.MatchedAllocation, detail.VariationKey) {
		return
	}
	record := AssignmentRecord{
		FeatureFlag:       flagKey,
		Allocation:        detail.MatchedAllocation,
		Experiment:        flagKey + "-" + detail.MatchedAllocation,
		Variation:         detail.VariationKey,
		Subject:           subjectKey,
		Timestamp:         c.nowFunc().UTC().Format(time.RFC3339Nano),
		SubjectAttributes: attributes,
		ExtraLogging:      detail.ExtraLogging,
		EntityID:          detail.EntityID,
	}
	c.assignmentLogger.LogAssignment(record)
}

// GetBooleanAssignment evaluates flagKey for subjectKey, returning
// defaultValue on any non-match or type mismatch (spec.md §4.8).
func (c *Client) GetBooleanAssignment(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue bool) bool {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.Boolean)
	if !detail.Matched {
		return defaultValue
	}
	b, err := v.AsBool()
	if err != nil {
		return defaultValue
	}
	return b
}

// GetBooleanAssignmentDetails is GetBooleanAssignment's "details" variant,
// additionally returning the evaluation trace.
func (c *Client) GetBooleanAssignmentDetails(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue bool) (bool, Detail) {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.Boolean)
	if !detail.Matched {
		return defaultValue, newDetail(detail)
	}
	b, err := v.AsBool()
	if err != nil {
		return defaultValue, newDetail(detail)
	}
	return b, newDetail(detail)
}

// GetIntegerAssignment evaluates flagKey for subjectKey as an integer.
func (c *Client) GetIntegerAssignment(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue int64) int64 {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.Integer)
	if !detail.Matched {
		return defaultValue
	}
	n, err := v.AsInteger()
	if err != nil {
		return defaultValue
	}
	return n
}

// GetIntegerAssignmentDetails is GetIntegerAssignment's "details" variant.
func (c *Client) GetIntegerAssignmentDetails(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue int64) (int64, Detail) {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.Integer)
	if !detail.Matched {
		return defaultValue, newDetail(detail)
	}
	n, err := v.AsInteger()
	if err != nil {
		return defaultValue, newDetail(detail)
	}
	return n, newDetail(detail)
}

// GetNumericAssignment evaluates flagKey for subjectKey as a 64-bit float.
func (c *Client) GetNumericAssignment(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue float64) float64 {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.Numeric)
	if !detail.Matched {
		return defaultValue
	}
	n, err := v.AsNumber()
	if err != nil {
		return defaultValue
	}
	return n
}

// GetNumericAssignmentDetails is GetNumericAssignment's "details" variant.
func (c *Client) GetNumericAssignmentDetails(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue float64) (float64, Detail) {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.Numeric)
	if !detail.Matched {
		return defaultValue, newDetail(detail)
	}
	n, err := v.AsNumber()
	if err != nil {
		return defaultValue, newDetail(detail)
	}
	return n, newDetail(detail)
}

// GetStringAssignment evaluates flagKey for subjectKey as a string.
func (c *Client) GetStringAssignment(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue string) string {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.String)
	if !detail.Matched {
		return defaultValue
	}
	s, err := v.AsString()
	if err != nil {
		return defaultValue
	}
	return s
}

// GetStringAssignmentDetails is GetStringAssignment's "details" variant.
func (c *Client) GetStringAssignmentDetails(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue string) (string, Detail) {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.String)
	if !detail.Matched {
		return defaultValue, newDetail(detail)
	}
	s, err := v.AsString()
	if err != nil {
		return defaultValue, newDetail(detail)
	}
	return s, newDetail(detail)
}

// GetJSONAssignment evaluates flagKey for subjectKey, returning the raw
// JSON-encoded text of the matched variation (spec.md §3.6: JSON variations
// are carried as encoded strings, not a distinct Value tag).
func (c *Client) GetJSONAssignment(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue string) string {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.JSON)
	if !detail.Matched {
		return defaultValue
	}
	s, err := v.AsString()
	if err != nil {
		return defaultValue
	}
	return s
}

// GetJSONAssignmentDetails is GetJSONAssignment's "details" variant.
func (c *Client) GetJSONAssignmentDetails(flagKey, subjectKey string, attributes map[string]interface{}, defaultValue string) (string, Detail) {
	v, detail := c.evaluateTyped(flagKey, subjectKey, attributes, wire.JSON)
	if !detail.Matched {
		return defaultValue, newDetail(detail)
	}
	s, err := v.AsString()
	if err != nil {
		return defaultValue, newDetail(detail)
	}
	return s, newDetail(detail)
}
