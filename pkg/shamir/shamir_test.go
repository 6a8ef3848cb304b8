package shamir

import (
	"bytes"
	"testing"
)

func TestSplitCombine(t *testing.T) {
	secret := []byte("an ephemeral aes key, 32 bytes!!")

	parts, err := Split(secret, 5, 3)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(parts) != 5 {
		t.Fatalf("got %d parts, want 5", len(parts))
	}

	// Any three parts reconstruct.
	for _, pick := range [][]int{{0, 1, 2}, {4, 2, 0}, {1, 3, 4}} {
		subset := [][]byte{parts[pick[0]], parts[pick[1]], parts[pick[2]]}
		got, err := Combine(subset)
		if err != nil {
			t.Fatalf("combine %v: %v", pick, err)
		}
		if !bytes.Equal(got, secret) {
			t.Fatalf("combine %v: wrong secret", pick)
		}
	}
}

func TestCombineBelowThreshold(t *testing.T) {
	secret := []byte("short secret")
	parts, err := Split(secret, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Combine(parts[:2])
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if bytes.Equal(got, secret) {
		t.Fatal("two parts should not reconstruct a threshold-3 secret")
	}
}

func TestSplitValidation(t *testing.T) {
	if _, err := Split([]byte("x"), 2, 3); err == nil {
		t.Fatal("parts < threshold should fail")
	}
	if _, err := Split([]byte("x"), 3, 1); err == nil {
		t.Fatal("threshold < 2 should fail")
	}
	if _, err := Split(nil, 3, 2); err == nil {
		t.Fatal("empty secret should fail")
	}
}

func TestFieldTables(t *testing.T) {
	// exp and log must be inverse on the nonzero field elements.
	for i := 1; i < 256; i++ {
		if expTable[logTable[uint8(i)]] != uint8(i) {
			t.Fatalf("exp(log(%d)) != %d", i, i)
		}
	}
	if mult(0x53, 0xCA) != 0x01 {
		t.Fatalf("0x53 * 0xCA should be 1 in GF(2^8), got %#x", mult(0x53, 0xCA))
	}
}
