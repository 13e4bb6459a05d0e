// -------------------------
// File: utils_test.go
// -------------------------
package utils

import "testing"

func TestB2sEmpty(t *testing.T) {
	if s := B2s(nil); s != "" {
		t.Fatalf("B2s(nil) = %q, want empty", s)
	}
	if s := B2s([]byte{}); s != "" {
		t.Fatalf("B2s(empty) = %q, want empty", s)
	}
}

func TestB2sRoundTrip(t *testing.T) {
	src := []byte("frame drained")
	if s := B2s(src); s != "frame drained" {
		t.Fatalf("B2s = %q", s)
	}
}

func TestUtoa(t *testing.T) {
	cases := map[uint64]string{
		0:                    "0",
		7:                    "7",
		10:                   "10",
		524800:               "524800",
		18446744073709551615: "18446744073709551615",
	}
	for in, want := range cases {
		if got := Utoa(in); got != want {
			t.Fatalf("Utoa(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{
		0:      "0",
		42:     "42",
		-1:     "-1",
		-65536: "-65536",
	}
	for in, want := range cases {
		if got := Itoa(in); got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", in, got, want)
		}
	}
}

func BenchmarkUtoa(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Utoa(uint64(i))
	}
}
