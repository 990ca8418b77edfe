// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package netcalc

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    Addr
		wantErr bool
	}{
		{"0.0.0.0", 0, false},
		{"192.168.1.1", 0xC0A80101, false},
		{"255.255.255.255", 0xFFFFFFFF, false},
		{"10.0.0", 0, true},
		{"10.0.0.0.1", 0, true},
		{"256.1.1.1", 0, true},
		{"01.1.1.1", 0, true},
		{"1..1.1", 0, true},
		{"1.1.1.a", 0, true},
		{" 1.1.1.1", 0, true},
		{"1.1.1.1000", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAddr(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseAddr(%q) expected error, got %v", tt.in, got)
			}
			if !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("ParseAddr(%q) error %v does not wrap ErrInvalidAddress", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAddr(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseAddr(%q) = %#x, want %#x", tt.in, uint32(got), uint32(tt.want))
		}
	}
}

func TestAddrRendering(t *testing.T) {
	a := MustParseAddr("192.168.1.10")
	if a.String() != "192.168.1.10" {
		t.Fatalf("String() = %s", a)
	}
	if got := a.Binary(); got != "11000000.10101000.00000001.00001010" {
		t.Fatalf("Binary() = %s", got)
	}
	if o := a.Octets(); o != [4]byte{192, 168, 1, 10} {
		t.Fatalf("Octets() = %v", o)
	}
}

func TestAddrJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Addr `json:"a"`
	}{MustParseAddr("10.1.2.3")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":"10.1.2.3"}` {
		t.Fatalf("unexpected json %s", b)
	}
	var back struct {
		A Addr `json:"a"`
	}
	if err := json.Unmarshal([]byte(`{"a":"300.1.1.1"}`), &back); err == nil {
		t.Fatalf("expected error decoding invalid address")
	}
}
