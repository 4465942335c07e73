package codecs

import "testing"

func TestWordSwap_ReversesEachFourByteWord(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	if err := wordSwap(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x04, 0x03, 0x02, 0x01, 0x08, 0x07, 0x06, 0x05}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, data[i], want[i])
		}
	}
}

func TestWordSwap_IsSelfInverse(t *testing.T) {
	original := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	data := append([]byte(nil), original...)
	if err := wordSwap(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wordSwap(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range original {
		if data[i] != original[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, data[i], original[i])
		}
	}
}

func TestWordSwap_RejectsNonMultipleOfFour(t *testing.T) {
	if err := wordSwap([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a length not a multiple of 4")
	}
}
