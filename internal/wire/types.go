// Package wire defines the Configuration wire format (spec.md §3.6-3.7,
// §6.2) and its JSON decoding, in both plain and obfuscated representations.
// Struct shapes are grounded on ldmodel.FeatureFlag/Rule/Clause
// (go-server-sdk-evaluation.v1/ldmodel): one struct per wire concept, JSON
// tags doing the field-name translation, no generic map[string]interface{}
// plumbing through the evaluator.
package wire

import (
	"encoding/json"
	"time"

	"github.com/Eppo-exp/eppo-go-sdk/eppovalue"
	"github.com/Eppo-exp/eppo-go-sdk/internal/obfuscation"
)

// VariationType is the declared type of a flag's variations (spec.md §3.6).
type VariationType string

const (
	Boolean VariationType = "BOOLEAN"
	Integer VariationType = "INTEGER"
	Numeric VariationType = "NUMERIC"
	String  VariationType = "STRING"
	JSON    VariationType = "JSON"
)

// Operator identifies a Condition's comparison (spec.md §3.4).
type Operator string

const (
	OneOf            Operator = "ONE_OF"
	NotOneOf         Operator = "NOT_ONE_OF"
	GreaterThan      Operator = "GT"
	GreaterThanEqual Operator = "GTE"
	LessThan         Operator = "LT"
	LessThanEqual    Operator = "LTE"
	Matches          Operator = "MATCHES"
	NotMatches       Operator = "NOT_MATCHES"
	IsNull           Operator = "IS_NULL"
)

// Format distinguishes the audience a Configuration document was produced
// for (spec.md §3.7).
type Format string

const (
	ServerFormat Format = "SERVER"
	ClientFormat Format = "CLIENT"
)

// Variation is a named value a flag may resolve to (spec.md §3.2).
type Variation struct {
	Key   string          `json:"key"`
	Value eppovalue.Value `json:"value"`
}

// Range is a half-open integer interval [Start, End) over shard buckets
// (spec.md §3.3).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether bucket falls in [Start, End).
func (r Range) Contains(bucket int) bool {
	return bucket >= r.Start && bucket < r.End
}

// Shard is a salted set of bucket ranges (spec.md §3.3).
type Shard struct {
	Salt   string  `json:"salt"`
	Ranges []Range `json:"ranges"`
}

// Split is a candidate variation gated by a conjunction of Shards
// (spec.md §3.3).
type Split struct {
	VariationKey string            `json:"variationKey"`
	Shards       []Shard           `json:"shards"`
	ExtraLogging map[string]string `json:"extraLogging,omitempty"`
}

// Condition is a single attribute predicate (spec.md §3.4).
type Condition struct {
	Attribute string          `json:"attribute"`
	Operator  Operator        `json:"operator"`
	Value     eppovalue.Value `json:"value"`
}

// Rule is a conjunction of Conditions (spec.md §3.4).
type Rule struct {
	Conditions []Condition `json:"conditions"`
}

// Timestamp decodes an allocation time-window bound, which the wire format
// carries as an RFC3339 string for a Server-format configuration and as a
// base64-encoded RFC3339 string for a Client-format (obfuscated) one
// (spec.md §3.7, §4.9). obfuscation.DecodeTimestamp already falls back to
// parsing its input directly as RFC3339 when it isn't valid base64, so a
// single unmarshal path handles both representations without consulting
// Configuration.Obfuscated.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := obfuscation.DecodeTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Allocation is an ordered, time-windowed, rule-gated group of Splits
// (spec.md §3.5).
type Allocation struct {
	Key      string     `json:"key"`
	Rules    []Rule     `json:"rules,omitempty"`
	StartAt  *Timestamp `json:"startAt,omitempty"`
	EndAt    *Timestamp `json:"endAt,omitempty"`
	Splits   []Split    `json:"splits"`
	DoLog    bool       `json:"doLog"`
	EntityID *int64     `json:"entityId,omitempty"`
}

// Active reports whether now falls within [StartAt, EndAt], treating an
// absent bound as open-ended.
func (a Allocation) Active(now time.Time) bool {
	if a.StartAt != nil && now.Before(a.StartAt.Time) {
		return false
	}
	if a.EndAt != nil && now.After(a.EndAt.Time) {
		return false
	}
	return true
}

// Flag is the complete definition of one feature flag (spec.md §3.6).
type Flag struct {
	Key           string               `json:"key"`
	Enabled       bool                 `json:"enabled"`
	VariationType VariationType        `json:"variationType"`
	Variations    map[string]Variation `json:"variations"`
	Allocations   []Allocation         `json:"allocations"`
	TotalShards   int                  `json:"totalShards"`
	EntityID      *int64               `json:"entityId,omitempty"`
}

// Environment names the environment a Configuration was published for.
type Environment struct {
	Name string `json:"name"`
}

// Configuration is the complete, immutable parsed document the evaluator
// consults (spec.md §3.7). Decode stamps FetchedAt/PublishedAt/Obfuscated
// rather than taking them from the wire document; the persistent cache
// envelope carries all three and LoadPersisted restores them from it.
type Configuration struct {
	FlagsByKey    map[string]Flag `json:"flags"`
	Environment   Environment     `json:"environment"`
	CreatedAt     time.Time       `json:"createdAt"`
	Format        Format          `json:"format"`
	Obfuscated    bool            `json:"obfuscated"`
	FetchedAt     time.Time       `json:"-"`
	PublishedAt   time.Time       `json:"-"`
}

// Flag looks up a flag by its plain key. Obfuscated-configuration lookups
// go through obfuscation.FlagKeyPlainToObf first (see internal/obfuscation).
func (c *Configuration) Flag(key string) (Flag, bool) {
	f, ok := c.FlagsByKey[key]
	return f, ok
}
