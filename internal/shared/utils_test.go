package shared

import (
	"encoding/hex"
	"strconv"
	"testing"
)

// ---------- MakeRandHexString ----------

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 20
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestMakeRandHexString_EntropyHint(t *testing.T) {
	const n = 32
	a, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a == b {
		t.Logf("warning: two MakeRandHexString(%d) results are identical; extremely unlikely", n)
	}
}

// ---------- MakeRandNumericString ----------

func TestMakeRandNumericString_StaysInRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s, err := MakeRandNumericString(100000, 999999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s) != 6 {
			t.Fatalf("expected 6 digits, got %q", s)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			t.Fatalf("not a number: %q", s)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("out of range: %d", n)
		}
	}
}

func TestMakeRandNumericString_SingleValueRange(t *testing.T) {
	s, err := MakeRandNumericString(7, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "7" {
		t.Fatalf("expected 7, got %q", s)
	}
}

func TestMakeRandNumericString_InvalidRange(t *testing.T) {
	if _, err := MakeRandNumericString(10, 1); err == nil {
		t.Fatal("expected error for max < min")
	}
	if _, err := MakeRandNumericString(-1, 1); err == nil {
		t.Fatal("expected error for negative min")
	}
}

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}
