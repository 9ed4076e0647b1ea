package sdkkey

import "testing"

const fixtureKey = "zCsQuoHJxVPp895.Y3M9dGVzdA=="

func TestResolveEndpointSubdomainRouting(t *testing.T) {
	got := ResolveEndpoint(fixtureKey, "")
	want := "https://test.fscdn.eppo.cloud/api"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveEndpointExplicitDefaultBaseURLSameResult(t *testing.T) {
	got := ResolveEndpoint(fixtureKey, "https://fscdn.eppo.cloud/api")
	want := "https://test.fscdn.eppo.cloud/api"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveEndpointCustomBaseURLOverrides(t *testing.T) {
	got := ResolveEndpoint(fixtureKey, "https://my-proxy.example.com/api")
	want := "https://my-proxy.example.com/api"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveEndpointUnparsableKeyFallsBackToDefault(t *testing.T) {
	got := ResolveEndpoint("not-a-valid-sdk-key", "")
	want := defaultBaseURL
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveEndpointNoSubdomainClaimFallsBackToDefault(t *testing.T) {
	// payload "foo=bar" carries no "cs" claim.
	got := ResolveEndpoint("sig.Zm9vPWJhcg==", "")
	want := defaultBaseURL
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
