package rules

import "github.com/Eppo-exp/eppo-go-sdk/eppovalue"

// Attributes is the coerced form of the subject attribute map the client
// façade receives from callers as map[string]interface{}.
type Attributes map[string]eppovalue.Value

// FromNative converts a caller-supplied attribute map (native Go scalars)
// into Attributes, the form the Rule Evaluator and Flag Evaluator operate
// on. Unsupported value types are dropped rather than causing the whole
// evaluation to fail, consistent with spec.md §4.4's total-function
// contract for evaluation.
func FromNative(native map[string]interface{}) Attributes {
	out := make(Attributes, len(native))
	for k, v := range native {
		switch val := v.(type) {
		case nil:
			out[k] = eppovalue.Null()
		case bool:
			out[k] = eppovalue.Bool(val)
		case string:
			out[k] = eppovalue.String(val)
		case float64:
			out[k] = eppovalue.Number(val)
		case float32:
			out[k] = eppovalue.Number(float64(val))
		case int:
			out[k] = eppovalue.Integer(int64(val))
		case int32:
			out[k] = eppovalue.Integer(int64(val))
		case int64:
			out[k] = eppovalue.Integer(val)
		case []string:
			out[k] = eppovalue.StringArray(val)
		case eppovalue.Value:
			out[k] = val
		}
	}
	return out
}

// Get returns the attribute's value and whether it is present and non-null.
// A missing key and an explicit null attribute are treated identically,
// per spec.md §4.3's "missing attribute" language.
func (a Attributes) Get(name string) (eppovalue.Value, bool) {
	v, ok := a[name]
	if !ok || v.IsNull() {
		return eppovalue.Null(), false
	}
	return v, true
}
