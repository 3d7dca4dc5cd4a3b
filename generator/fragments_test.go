package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVarintBytes(t *testing.T) {
	tests := []struct {
		desc string
		in   uint64
		want []byte
	}{
		{desc: "zero", in: 0, want: []byte{0x00}},
		{desc: "one byte boundary", in: 127, want: []byte{0x7f}},
		{desc: "two bytes", in: 150, want: []byte{0x96, 0x01}},
		{desc: "max uint32", in: 0xffffffff, want: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{desc: "max uint64 needs ten bytes", in: 0xffffffffffffffff, want: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := varintBytes(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("varintBytes(%d) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestTagBytes(t *testing.T) {
	tests := []struct {
		desc   string
		number int32
		wt     WireType
		want   []byte
	}{
		{desc: "field 1 varint", number: 1, wt: WireVarint, want: []byte{0x08}},
		{desc: "field 2 length-delimited", number: 2, wt: WireLen, want: []byte{0x12}},
		{desc: "field 1 fixed64", number: 1, wt: WireI64, want: []byte{0x09}},
		{desc: "field 16 varint crosses one byte", number: 16, wt: WireVarint, want: []byte{0x80, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := tagBytes(tt.number, tt.wt)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tagBytes(%d, %d) mismatch (-want +got):\n%s", tt.number, tt.wt, diff)
			}
		})
	}
}

func TestRubyByteLiteral(t *testing.T) {
	tests := []struct {
		desc string
		in   []byte
		want string
	}{
		{desc: "single byte", in: []byte{0x08}, want: `"\x08"`},
		{desc: "two bytes", in: []byte{0x9a, 0x01}, want: `"\x9a\x01"`},
		{desc: "empty", in: nil, want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := rubyByteLiteral(tt.in)
			if got != tt.want {
				t.Errorf("rubyByteLiteral(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
