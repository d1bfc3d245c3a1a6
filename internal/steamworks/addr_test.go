package steamworks

import (
	"errors"
	"testing"
)

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{in: "", want: 0},
		{in: "0.0.0.0", want: 0},
		{in: "127.0.0.1", want: 0x7f000001},
		{in: " 10.0.0.2 ", want: 0x0a000002},
		{in: "255.255.255.255", want: 0xffffffff},
	}
	for _, tt := range tests {
		got, err := ParseIPv4(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parse %q = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestParseIPv4Rejects(t *testing.T) {
	for _, in := range []string{"::1", "localhost", "1.2.3", "300.1.1.1"} {
		if _, err := ParseIPv4(in); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("parse %q: err = %v, want invalid argument", in, err)
		}
	}
}

func TestFormatIPv4(t *testing.T) {
	if got := FormatIPv4(0x7f000001); got != "127.0.0.1" {
		t.Fatalf("format = %q", got)
	}
}
