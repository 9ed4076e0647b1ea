package wire

import (
	"encoding/json"
	"fmt"
	"time"
)

// Decode parses a Configuration wire document (spec.md §6.2). Per-value
// decoding of eppovalue.Value runs through the streaming jreader-based codec
// (see eppovalue.Value.UnmarshalJSON); the surrounding struct shape uses
// encoding/json and tags, matching the teacher's own
// NewJSONDataModelSerialization, which favors a typed struct decode over
// generic map[string]interface{} traversal and reserves a dedicated codec
// only for the parts of the model that are actually performance-sensitive.
func Decode(data []byte, obfuscated bool) (*Configuration, error) {
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("wire: decode configuration: %w", err)
	}
	cfg.Obfuscated = obfuscated
	if obfuscated {
		cfg.Format = ClientFormat
	}
	cfg.FetchedAt = time.Now().UTC()
	if cfg.PublishedAt.IsZero() {
		cfg.PublishedAt = cfg.CreatedAt
	}
	return &cfg, nil
}

// Encode serializes a Configuration back to its wire JSON shape, used by the
// persistent cache (spec.md §4.6) to round-trip what was fetched.
func Encode(cfg *Configuration) ([]byte, error) {
	return json.Marshal(cfg)
}
