package packstream

import (
	"math"
	"testing"
	"testing/quick"
)

func TestWriteReadBoolRoundTrip(t *testing.T) {
	f := func(val bool) bool {
		w := NewWriter()
		w.WriteBool(val)

		r := NewReader(w.Bytes())
		got, err := r.ReadBool()
		if err != nil {
			t.Fatalf("ReadBool: %v", err)
		}
		return got == val && r.Len() == 0
	}

	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestWriteReadIntRoundTrip(t *testing.T) {
	f := func(val int64) bool {
		w := NewWriter()
		w.WriteInt(val)

		r := NewReader(w.Bytes())
		got, err := r.ReadInt()
		if err != nil {
			t.Fatalf("ReadInt(%d): %v", val, err)
		}
		return got == val && r.Len() == 0
	}

	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

// TestWriteIntMinimalWidth checks that an encoded integer always uses the
// narrowest marker that preserves its value.
func TestWriteIntMinimalWidth(t *testing.T) {
	cases := []struct {
		val  int64
		size int
	}{
		{0, 1},
		{-16, 1},
		{127, 1},
		{-17, 2},
		{128, 3},
		{math.MaxInt8, 1},
		{math.MinInt8 - 1, 3},
		{math.MaxInt16, 3},
		{math.MaxInt16 + 1, 5},
		{math.MinInt16 - 1, 5},
		{math.MaxInt32, 5},
		{math.MaxInt32 + 1, 9},
		{math.MinInt32 - 1, 9},
		{math.MaxInt64, 9},
		{math.MinInt64, 9},
	}
	for _, c := range cases {
		w := NewWriter()
		w.WriteInt(c.val)
		if w.Len() != c.size {
			t.Errorf("WriteInt(%d): got %d bytes, want %d", c.val, w.Len(), c.size)
		}
	}
}

func TestWriteReadFloatRoundTrip(t *testing.T) {
	f := func(val float64) bool {
		w := NewWriter()
		w.WriteFloat(val)

		r := NewReader(w.Bytes())
		got, err := r.ReadFloat()
		if err != nil {
			t.Fatalf("ReadFloat: %v", err)
		}
		return got == val || (math.IsNaN(got) && math.IsNaN(val))
	}

	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestWriteReadStringRoundTrip(t *testing.T) {
	f := func(val string) bool {
		w := NewWriter()
		if err := w.WriteString(val); err != nil {
			t.Fatalf("WriteString: %v", err)
		}

		r := NewReader(w.Bytes())
		got, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		return got == val && r.Len() == 0
	}

	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestWriteReadBytesRoundTrip(t *testing.T) {
	f := func(val []byte) bool {
		w := NewWriter()
		if err := w.WriteBytes(val); err != nil {
			t.Fatalf("WriteBytes: %v", err)
		}

		r := NewReader(w.Bytes())
		got, err := r.ReadBytes()
		if err != nil {
			t.Fatalf("ReadBytes: %v", err)
		}
		if len(got) != len(val) {
			return false
		}
		for i := range got {
			if got[i] != val[i] {
				return false
			}
		}
		return r.Len() == 0
	}

	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestWriteReadListHeaderRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 255, 256, 65535, 65536} {
		w := NewWriter()
		if err := w.WriteListHeader(n); err != nil {
			t.Fatalf("WriteListHeader(%d): %v", n, err)
		}

		r := NewReader(w.Bytes())
		got, err := r.ReadListHeader()
		if err != nil {
			t.Fatalf("ReadListHeader: %v", err)
		}
		if got != n {
			t.Errorf("ReadListHeader: got %d, want %d", got, n)
		}
	}
}

func TestWriteReadMapHeaderRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 255, 256, 65535, 65536} {
		w := NewWriter()
		if err := w.WriteMapHeader(n); err != nil {
			t.Fatalf("WriteMapHeader(%d): %v", n, err)
		}

		r := NewReader(w.Bytes())
		got, err := r.ReadMapHeader()
		if err != nil {
			t.Fatalf("ReadMapHeader: %v", err)
		}
		if got != n {
			t.Errorf("ReadMapHeader: got %d, want %d", got, n)
		}
	}
}

func TestWriteReadStructHeaderRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16} {
		w := NewWriter()
		if err := w.WriteStructHeader(n, 0x4E); err != nil {
			t.Fatalf("WriteStructHeader(%d): %v", n, err)
		}

		r := NewReader(w.Bytes())
		fields, sig, err := r.ReadStructHeader()
		if err != nil {
			t.Fatalf("ReadStructHeader: %v", err)
		}
		if fields != n || sig != 0x4E {
			t.Errorf("ReadStructHeader: got (%d, %#x), want (%d, 0x4e)", fields, sig, n)
		}
	}

	w := NewWriter()
	if err := w.WriteStructHeader(17, 0x4E); err != ErrOverflow {
		t.Fatalf("WriteStructHeader(17): got %v, want ErrOverflow", err)
	}
}

func TestPeekTypeDoesNotConsume(t *testing.T) {
	w := NewWriter()
	w.WriteInt(42)

	r := NewReader(w.Bytes())
	typ, err := r.PeekType()
	if err != nil {
		t.Fatalf("PeekType: %v", err)
	}
	if typ != TypeInteger {
		t.Fatalf("PeekType: got %v, want Integer", typ)
	}
	if r.Len() != w.Len() {
		t.Fatalf("PeekType consumed a byte: Len() = %d, want %d", r.Len(), w.Len())
	}

	got, err := r.ReadInt()
	if err != nil || got != 42 {
		t.Fatalf("ReadInt after PeekType: got (%d, %v)", got, err)
	}
}

func TestReadMalformedOnTruncatedInput(t *testing.T) {
	w := NewWriter()
	if err := w.WriteString("hello"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	truncated := w.Bytes()[:w.Len()-2]

	r := NewReader(truncated)
	if _, err := r.ReadString(); err != ErrMalformed {
		t.Fatalf("ReadString on truncated input: got %v, want ErrMalformed", err)
	}
}
