package sharding

import "testing"

func TestMD5HexKnownValues(t *testing.T) {
	cases := map[string]string{
		"hello-world":                            "2095312189753de6ad47dfe20cbe97ec",
		"another-string-with-experiment-subject": "fd6bfc667b1bcdb901173f3d712e6c50",
	}
	for input, want := range cases {
		if got := MD5Hex(input); got != want {
			t.Errorf("MD5Hex(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestShardInRange(t *testing.T) {
	for _, total := range []int{1, 2, 10, 10000} {
		for _, subject := range []string{"alice", "bob", "", "subject-with-🎉-unicode"} {
			got := Shard("salt", subject, total)
			if got < 0 || got >= total {
				t.Fatalf("Shard(%q, %d) = %d, out of range", subject, total, got)
			}
		}
	}
}

func TestShardDeterministic(t *testing.T) {
	a := Shard("salt", "subject-1", 10000)
	b := Shard("salt", "subject-1", 10000)
	if a != b {
		t.Fatalf("Shard is not deterministic: %d != %d", a, b)
	}
}
