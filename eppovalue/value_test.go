package eppovalue

import "testing"

func TestDisplayString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Integer(3), "3"},
		{Number(3.1415926), "3.1415926"},
		{Number(4.0), "4"},
		{String("hello"), "hello"},
		{StringArray([]string{"a", "b"}), "a, b"},
		{Null(), ""},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestIntegerCoercion(t *testing.T) {
	if n, err := Integer(3).AsInteger(); err != nil || n != 3 {
		t.Fatalf("AsInteger() = %d, %v", n, err)
	}
	if _, err := Number(3.14).AsInteger(); err == nil {
		t.Fatalf("expected error for fractional number")
	}
}

func TestTypeMismatch(t *testing.T) {
	if _, err := Bool(true).AsString(); err != ErrTypeMismatch {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestArrayMultisetEquality(t *testing.T) {
	a := StringArray([]string{"x", "y", "y"})
	b := StringArray([]string{"y", "x", "y"})
	c := StringArray([]string{"x", "y"})
	if !a.Equal(b) {
		t.Fatalf("expected multiset-equal arrays to be equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected duplicate-sensitive arrays to differ")
	}
}

func TestNumberEqualityAcrossIntegerAndFloat(t *testing.T) {
	if !Integer(4).Equal(Number(4.0)) {
		t.Fatalf("expected Integer(4) to equal Number(4.0)")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	values := []Value{
		Null(),
		Bool(true),
		Number(2.5),
		Integer(7),
		String("s"),
		StringArray([]string{"a", "b", "c"}),
	}
	for _, v := range values {
		data, err := v.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON: %v", err)
		}
		var decoded Value
		if err := decoded.UnmarshalJSON(data); err != nil {
			t.Fatalf("UnmarshalJSON: %v", err)
		}
		if !decoded.Equal(v) {
			t.Fatalf("round trip mismatch: %v != %v", decoded, v)
		}
	}
}
