package eval

import (
	"time"

	"github.com/Eppo-exp/eppo-go-sdk/eppovalue"
	"github.com/Eppo-exp/eppo-go-sdk/internal/obfuscation"
	"github.com/Eppo-exp/eppo-go-sdk/internal/rules"
	"github.com/Eppo-exp/eppo-go-sdk/internal/sharding"
	"github.com/Eppo-exp/eppo-go-sdk/internal/wire"
)

// Evaluate runs the primary evaluation operation (spec.md §4.4) for a flag
// that has already been looked up (callers resolve flag-not-found before
// calling this, since an absent flag and a disabled flag share the same
// NoMatch reason but only a resolved Flag can be walked).
func Evaluate(flag wire.Flag, subjectKey string, attrs rules.Attributes, now time.Time, obfuscated bool) Detail {
	if !flag.Enabled {
		return Detail{Reason: ReasonFlagUnrecognizedOrDisabled}
	}

	var trace []AllocationTrace
	var matchedRule *wire.Rule
	var chosenAlloc *wire.Allocation
	var chosenSplit *wire.Split

	for i := range flag.Allocations {
		alloc := &flag.Allocations[i]
		pos := i + 1

		if chosenAlloc != nil {
			trace = append(trace, AllocationTrace{alloc.Key, CodeUnevaluated, pos})
			continue
		}

		if !alloc.Active(now) {
			code := CodeBeforeStart
			if alloc.StartAt == nil || !now.Before(alloc.StartAt.Time) {
				code = CodeAfterEnd
			}
			trace = append(trace, AllocationTrace{alloc.Key, code, pos})
			continue
		}

		if len(alloc.Rules) > 0 {
			passed := false
			for idx := range alloc.Rules {
				r := adaptRule(alloc.Rules[idx], obfuscated)
				if r.Matches(attrs) {
					passed = true
					break
				}
				if matchedRule == nil {
					matchedRule = &alloc.Rules[idx]
				}
			}
			if !passed {
				trace = append(trace, AllocationTrace{alloc.Key, CodeFailingRule, pos})
				continue
			}
		}

		split := findMatchingSplit(alloc, subjectKey, flag.TotalShards, obfuscated)
		if split == nil {
			trace = append(trace, AllocationTrace{alloc.Key, CodeEmpty, pos})
			continue
		}

		trace = append(trace, AllocationTrace{alloc.Key, CodeMatch, pos})
		chosenAlloc = alloc
		chosenSplit = split
	}

	if chosenAlloc == nil {
		return Detail{
			Reason:           ReasonDefaultAllocationNull,
			AllocationTraces: trace,
			MatchedRule:      matchedRule,
		}
	}

	variation, ok := flag.Variations[chosenSplit.VariationKey]
	if !ok || !valueConsistentWithType(variation.Value, flag.VariationType) {
		return Detail{
			Reason:            ReasonAssignmentError,
			MatchedAllocation: chosenAlloc.Key,
			AllocationTraces:  trace,
			MatchedRule:       matchedRule,
		}
	}

	value := variation.Value
	extraLogging := chosenSplit.ExtraLogging
	if obfuscated {
		value = decodeVariationValue(value)
		extraLogging = obfuscation.ExtraLogging(extraLogging)
	}

	entityID := chosenAlloc.EntityID
	if entityID == nil {
		entityID = flag.EntityID
	}

	return Detail{
		Matched:           true,
		VariationKey:      chosenSplit.VariationKey,
		Value:             value,
		MatchedAllocation: chosenAlloc.Key,
		EntityID:          entityID,
		DoLog:             chosenAlloc.DoLog,
		ExtraLogging:      extraLogging,
		AllocationTraces:  trace,
		MatchedRule:       matchedRule,
	}
}

func valueConsistentWithType(v eppovalue.Value, t wire.VariationType) bool {
	switch t {
	case wire.Boolean:
		_, err := v.AsBool()
		return err == nil
	case wire.Integer:
		_, err := v.AsInteger()
		return err == nil
	case wire.Numeric:
		_, err := v.AsNumber()
		return err == nil
	case wire.String, wire.JSON:
		_, err := v.AsString()
		return err == nil
	default:
		return false
	}
}

func findMatchingSplit(alloc *wire.Allocation, subjectKey string, totalShards int, obfuscated bool) *wire.Split {
	for i := range alloc.Splits {
		split := &alloc.Splits[i]
		if splitMatches(split, subjectKey, totalShards, obfuscated) {
			return split
		}
	}
	return nil
}

// splitMatches implements spec.md §3.3: a subject matches a Split iff all of
// its Shards match (AND across shards), and a subject matches a Shard iff
// the subject's shard bucket for that shard's salt falls in any one of its
// Ranges (OR within a shard). The bucket is computed modulo the flag's
// configured totalShards (invariant I2: ranges are subsets of
// [0, totalShards), not a modulus of their own).
func splitMatches(split *wire.Split, subjectKey string, totalShards int, obfuscated bool) bool {
	for _, shard := range split.Shards {
		if !shardMatches(shard, subjectKey, totalShards, obfuscated) {
			return false
		}
	}
	return true
}

func shardMatches(shard wire.Shard, subjectKey string, totalShards int, obfuscated bool) bool {
	if totalShards <= 0 {
		return false
	}
	salt := shard.Salt
	if obfuscated {
		salt = obfuscation.DecodeString(salt)
	}
	bucket := sharding.Shard(salt, subjectKey, totalShards)
	for _, r := range shard.Ranges {
		if r.Contains(bucket) {
			return true
		}
	}
	return false
}

func adaptRule(r wire.Rule, obfuscated bool) rules.Rule {
	out := rules.Rule{Conditions: make([]rules.Condition, len(r.Conditions))}
	for i, c := range r.Conditions {
		out.Conditions[i] = adaptCondition(c, obfuscated)
	}
	return out
}

func adaptCondition(c wire.Condition, obfuscated bool) rules.Condition {
	cond := rules.Condition{Attribute: c.Attribute, Operator: string(c.Operator)}
	if !obfuscated {
		cond.Value = c.Value
		return cond
	}
	switch c.Operator {
	case wire.Matches, wire.NotMatches:
		cond.RegexHashTarget, _ = c.Value.AsString()
	default:
		cond.Value = decodeStringOrArray(c.Value)
	}
	return cond
}

func decodeVariationValue(v eppovalue.Value) eppovalue.Value {
	return decodeStringOrArray(v)
}

func decodeStringOrArray(v eppovalue.Value) eppovalue.Value {
	switch v.Kind() {
	case eppovalue.StringKind:
		s, _ := v.AsString()
		return eppovalue.String(obfuscation.DecodeString(s))
	case eppovalue.StringArrayKind:
		arr, _ := v.AsStringArray()
		decoded := make([]string, len(arr))
		for i, s := range arr {
			decoded[i] = obfuscation.DecodeString(s)
		}
		return eppovalue.StringArray(decoded)
	default:
		return v
	}
}
