// Package eval implements the Flag Evaluator (spec.md §4.4): the ordered
// allocation -> rule -> split -> shard pipeline, grounded on
// go-server-sdk-evaluation.v1/evaluator.go's evaluate() method (there:
// targets -> rules -> fallthrough; here: allocations -> rules -> splits ->
// shards), including its pattern of returning one result struct that
// carries both the resolved value and a reason/trace rather than a bare
// error or a panic.
package eval

import (
	"errors"

	"github.com/Eppo-exp/eppo-go-sdk/eppovalue"
	"github.com/Eppo-exp/eppo-go-sdk/internal/wire"
)

// AllocationCode classifies why a single allocation did or did not produce a
// match during one evaluation pass (spec.md §4.4 step 2).
type AllocationCode string

const (
	CodeMatch       AllocationCode = "MATCH"
	CodeFailingRule AllocationCode = "FAILING_RULE"
	CodeBeforeStart AllocationCode = "BEFORE_START"
	CodeAfterEnd    AllocationCode = "AFTER_END"
	CodeUnevaluated AllocationCode = "UNEVALUATED"
	CodeEmpty       AllocationCode = "EMPTY"
)

// Reason explains a NoMatch/error outcome at the flag level (spec.md §4.4,
// §7). It is a typed enum, never a bare string, so callers can branch on it
// with equality instead of string matching.
type Reason string

const (
	ReasonNone                      Reason = ""
	ReasonFlagUnrecognizedOrDisabled Reason = "FLAG_UNRECOGNIZED_OR_DISABLED"
	ReasonDefaultAllocationNull      Reason = "DEFAULT_ALLOCATION_NULL"
	ReasonTypeMismatch               Reason = "TYPE_MISMATCH"
	ReasonAssignmentError            Reason = "ASSIGNMENT_ERROR"
)

// ErrConfigurationNotLoaded names the "no Configuration has ever been
// installed" condition (spec.md §7). The client façade does not return it:
// before any install, its typed accessors return the caller's default with
// an empty Reason.
var ErrConfigurationNotLoaded = errors.New("eppo: configuration not loaded")

// AllocationTrace records one allocation's outcome in declared order
// (spec.md §4.4's "evaluation trace").
type AllocationTrace struct {
	Key           string
	Code          AllocationCode
	OrderPosition int
}

// Detail is the full result of one evaluation: a resolved value (if any), an
// optional Reason describing why there wasn't one, and the trace used for
// the "assignment details" API variant.
type Detail struct {
	Matched             bool
	VariationKey        string
	Value               eppovalue.Value
	MatchedAllocation   string
	EntityID            *int64
	DoLog               bool
	ExtraLogging        map[string]string
	Reason              Reason
	AllocationTraces     []AllocationTrace
	MatchedRule          *wire.Rule
	FlagDescription      string
}
