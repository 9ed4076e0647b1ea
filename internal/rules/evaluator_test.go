package rules

import (
	"testing"

	"github.com/Eppo-exp/eppo-go-sdk/eppovalue"
)

func TestOneOfCaseSensitive(t *testing.T) {
	attrs := FromNative(map[string]interface{}{"country": "US"})
	c := Condition{Attribute: "country", Operator: "ONE_OF", Value: eppovalue.StringArray([]string{"US", "CA"})}
	if !conditionMatches(c, attrs) {
		t.Fatalf("expected match")
	}
	c2 := Condition{Attribute: "country", Operator: "ONE_OF", Value: eppovalue.StringArray([]string{"us", "ca"})}
	if conditionMatches(c2, attrs) {
		t.Fatalf("expected case-sensitive mismatch")
	}
}

func TestNotOneOfMissingAttributeFails(t *testing.T) {
	attrs := FromNative(map[string]interface{}{})
	c := Condition{Attribute: "country", Operator: "NOT_ONE_OF", Value: eppovalue.StringArray([]string{"US"})}
	if conditionMatches(c, attrs) {
		t.Fatalf("expected missing attribute to fail NOT_ONE_OF")
	}
}

func TestIsNullMissingAttribute(t *testing.T) {
	attrs := FromNative(map[string]interface{}{})
	c := Condition{Attribute: "age", Operator: "IS_NULL", Value: eppovalue.Bool(true)}
	if !conditionMatches(c, attrs) {
		t.Fatalf("expected IsNull(true) to pass for missing attribute")
	}
	c2 := Condition{Attribute: "age", Operator: "IS_NULL", Value: eppovalue.Bool(false)}
	if conditionMatches(c2, attrs) {
		t.Fatalf("expected IsNull(false) to fail for missing attribute")
	}
}

func TestNumericComparison(t *testing.T) {
	attrs := FromNative(map[string]interface{}{"age": float64(30)})
	c := Condition{Attribute: "age", Operator: "GTE", Value: eppovalue.Number(18)}
	if !conditionMatches(c, attrs) {
		t.Fatalf("expected 30 >= 18")
	}
}

func TestNumericComparisonAgainstNonNumericFails(t *testing.T) {
	attrs := FromNative(map[string]interface{}{"age": "not-a-number"})
	c := Condition{Attribute: "age", Operator: "GT", Value: eppovalue.Number(18)}
	if conditionMatches(c, attrs) {
		t.Fatalf("expected non-numeric comparison to fail, not error")
	}
}

func TestSemverComparison(t *testing.T) {
	attrs := FromNative(map[string]interface{}{"version": "2.3.5"})
	c := Condition{Attribute: "version", Operator: "GT", Value: eppovalue.String("2.3.0")}
	if !conditionMatches(c, attrs) {
		t.Fatalf("expected 2.3.5 > 2.3.0")
	}
}

func TestMatchesRegex(t *testing.T) {
	attrs := FromNative(map[string]interface{}{"email": "user@example.com"})
	c := Condition{Attribute: "email", Operator: "MATCHES", Value: eppovalue.String(`^.+@example\.com$`)}
	if !conditionMatches(c, attrs) {
		t.Fatalf("expected regex match")
	}
}

func TestMatchesInvalidRegexFails(t *testing.T) {
	attrs := FromNative(map[string]interface{}{"email": "user@example.com"})
	c := Condition{Attribute: "email", Operator: "MATCHES", Value: eppovalue.String("(unclosed")}
	if conditionMatches(c, attrs) {
		t.Fatalf("expected invalid regex to fail rather than error")
	}
}

func TestRuleVacuouslyPasses(t *testing.T) {
	r := Rule{}
	if !r.Matches(FromNative(nil)) {
		t.Fatalf("expected empty rule to pass vacuously")
	}
}
