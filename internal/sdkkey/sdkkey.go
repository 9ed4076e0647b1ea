// Package sdkkey implements SDK-key parsing and endpoint resolution
// (spec.md §6.1), grounded on the same base64-tolerant decode pattern as
// internal/obfuscation's codec (accept both standard and URL-safe alphabets,
// degrade to a default on any parse failure rather than erroring).
package sdkkey

import (
	"encoding/base64"
	"net/url"
	"strings"
)

const (
	defaultBaseURL = "https://fscdn.eppo.cloud/api"
	subdomainParam = "cs"
)

// ResolveEndpoint implements spec.md §6.1: parse sdkKey as
// "<signature>.<base64url-or-base64-std>", decode the payload segment as a
// query string, and derive a subdomain-routed base URL unless baseURL
// overrides it. Any parse failure falls back to the default endpoint with no
// subdomain, matching step 5 of the spec.
func ResolveEndpoint(sdkKey string, baseURL string) string {
	if baseURL != "" && baseURL != defaultBaseURL {
		return baseURL
	}

	subdomain, ok := subdomainFromKey(sdkKey)
	if !ok || subdomain == "" {
		return defaultBaseURL
	}
	return "https://" + subdomain + ".fscdn.eppo.cloud/api"
}

func subdomainFromKey(sdkKey string) (string, bool) {
	parts := strings.SplitN(sdkKey, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	payload, err := decodeBase64Either(parts[1])
	if err != nil {
		return "", false
	}
	values, err := url.ParseQuery(string(payload))
	if err != nil {
		return "", false
	}
	return values.Get(subdomainParam), true
}

func decodeBase64Either(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}
