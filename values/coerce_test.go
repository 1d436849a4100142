package values

import "testing"

func TestAsBool(t *testing.T) {
	cases := []struct {
		in      Value
		want    bool
		wantErr bool
	}{
		{Null{}, false, false},
		{Boolean(true), true, false},
		{Integer(0), false, false},
		{Integer(1), true, false},
		{Integer(2), false, true},
		{String("0"), false, false},
		{String("1"), true, false},
		{String("yes"), false, true},
		{Float(1), false, true},
	}
	for _, c := range cases {
		got, err := AsBool(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("AsBool(%#v): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("AsBool(%#v): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("AsBool(%#v): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAsInt8Range(t *testing.T) {
	if _, err := AsInt8(Integer(127)); err != nil {
		t.Errorf("AsInt8(127): unexpected error: %v", err)
	}
	if _, err := AsInt8(Integer(128)); err == nil {
		t.Error("AsInt8(128): expected error")
	}
	if n, err := AsInt8(Null{}); err != nil || n != 0 {
		t.Errorf("AsInt8(Null): got (%d, %v), want (0, nil)", n, err)
	}
}

func TestAsInt64PassesThroughAnyRange(t *testing.T) {
	got, err := AsInt64(Integer(1 << 40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1<<40 {
		t.Fatalf("got %d, want %d", got, int64(1)<<40)
	}
}

func TestCoercionErrorOnWrongKind(t *testing.T) {
	if _, err := AsInt64(String("not a number")); err == nil {
		t.Fatal("expected coercion error")
	}
}

func TestUnsupportedReason(t *testing.T) {
	u := Unsupported{ExpectedKind: "DateTime", Reason: "unrecognised time zone"}
	reason, ok := UnsupportedReason(u)
	if !ok || reason != "unrecognised time zone" {
		t.Fatalf("got (%q, %v), want (%q, true)", reason, ok, "unrecognised time zone")
	}
	if _, ok := UnsupportedReason(Integer(1)); ok {
		t.Fatal("expected ok=false for non-Unsupported value")
	}
}

func TestAsBoolUnsupportedWrapsReason(t *testing.T) {
	u := Unsupported{ExpectedKind: "DateTime", Reason: "unrecognised time zone %weird"}
	if _, err := AsBool(u); err == nil {
		t.Fatal("expected error coercing Unsupported to Boolean")
	}
}
