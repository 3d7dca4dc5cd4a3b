package generator

import "fmt"

// emitWireModule writes the shared per-file fragment library: the
// parameterized varint/zigzag/fixed/length-delimited primitives every
// message's _encode and decode_from call into. It is generated fresh into
// every output file — not an external runtime dependency — which is what
// lets §4.4/4.5's "inlined ... fragments" stay self-contained without
// duplicating the same dozen helper bodies once per message class.
func emitWireModule(b *WriteableBuffer) {
	b.P("module Protoboeuf")
	b.Indent()
	b.P("module Wire")
	b.Indent()
	b.P("module_function")
	b.P0()

	b.P("def w_varint(buf, v)")
	b.Indent()
	b.P("v &= 0xffffffffffffffff")
	b.P("loop do")
	b.Indent()
	b.P("byte = v & 0x7f")
	b.P("v >>= 7")
	b.P("if v.zero?")
	b.Indent()
	b.P("buf << byte")
	b.P("break")
	b.Unindent()
	b.P("else")
	b.Indent()
	b.P("buf << (byte | 0x80)")
	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def zigzag(v)")
	b.Indent()
	b.P("v >= 0 ? (v << 1) : ((-v << 1) - 1)")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def w_fixed32(buf, v)")
	b.Indent()
	b.P("buf << [v].pack('l<')")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def w_ufixed32(buf, v)")
	b.Indent()
	b.P("buf << [v].pack('V')")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def w_float(buf, v)")
	b.Indent()
	b.P("buf << [v].pack('e')")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def w_fixed64(buf, v)")
	b.Indent()
	b.P("buf << [v].pack('q<')")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def w_ufixed64(buf, v)")
	b.Indent()
	b.P("buf << [v].pack('Q<')")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def w_double(buf, v)")
	b.Indent()
	b.P("buf << [v].pack('E')")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def w_len(buf, bytes)")
	b.Indent()
	b.P("w_varint(buf, bytes.bytesize)")
	b.P("buf << bytes")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("# Reserves one length byte, yields for the caller to append the")
	b.P("# submessage body, then back-patches the reservation — splicing in")
	b.P("# extra bytes only if the body turned out to need them.")
	b.P("def w_submessage(buf)")
	b.Indent()
	b.P("reservation = buf.bytesize")
	b.P("buf << 0")
	b.P("yield")
	b.P("length = buf.bytesize - reservation - 1")
	b.P("if length < 0x80")
	b.Indent()
	b.P("buf.setbyte(reservation, length)")
	b.Unindent()
	b.P("else")
	b.Indent()
	b.P("length_bytes = String.new(encoding: Encoding::ASCII_8BIT)")
	b.P("w_varint(length_bytes, length)")
	b.P("buf[reservation, 1] = length_bytes")
	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_varint(buf, pos)")
	b.Indent()
	b.P("result = 0")
	b.P("shift = 0")
	b.P("loop do")
	b.Indent()
	b.P("raise 'protoboeuf: truncated varint' if pos >= buf.bytesize")
	b.P("byte = buf.getbyte(pos)")
	b.P("pos += 1")
	b.P("result |= (byte & 0x7f) << shift")
	b.P("break if byte & 0x80 == 0")
	b.P("shift += 7")
	b.P("raise 'protoboeuf: varint too long' if shift > 63")
	b.Unindent()
	b.P("end")
	b.P("[result, pos]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_varint_u32(buf, pos)")
	b.Indent()
	b.P("v, pos = r_varint(buf, pos)")
	b.P("[v & 0xffffffff, pos]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_varint_i32(buf, pos)")
	b.Indent()
	b.P("v, pos = r_varint(buf, pos)")
	b.P("v &= 0xffffffff")
	b.P("v -= 0x100000000 if v >= 0x80000000")
	b.P("[v, pos]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_varint_i64(buf, pos)")
	b.Indent()
	b.P("v, pos = r_varint(buf, pos)")
	b.P("v -= 0x10000000000000000 if v >= 0x8000000000000000")
	b.P("[v, pos]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_zigzag(buf, pos)")
	b.Indent()
	b.P("v, pos = r_varint(buf, pos)")
	b.P("[(v.even? ? (v >> 1) : -((v + 1) >> 1)), pos]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_fixed32(buf, pos)")
	b.Indent()
	b.P("[buf.byteslice(pos, 4).unpack1('l<'), pos + 4]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_ufixed32(buf, pos)")
	b.Indent()
	b.P("[buf.byteslice(pos, 4).unpack1('V'), pos + 4]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_float(buf, pos)")
	b.Indent()
	b.P("[buf.byteslice(pos, 4).unpack1('e'), pos + 4]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_fixed64(buf, pos)")
	b.Indent()
	b.P("[buf.byteslice(pos, 8).unpack1('q<'), pos + 8]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_ufixed64(buf, pos)")
	b.Indent()
	b.P("[buf.byteslice(pos, 8).unpack1('Q<'), pos + 8]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_double(buf, pos)")
	b.Indent()
	b.P("[buf.byteslice(pos, 8).unpack1('E'), pos + 8]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def r_len(buf, pos)")
	b.Indent()
	b.P("len, pos = r_varint(buf, pos)")
	b.P("[buf.byteslice(pos, len), pos + len]")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("# Advances past one value of the given wire type without decoding it,")
	b.P("# for a field number this message doesn't recognize.")
	b.P("def skip(buf, pos, wire_type)")
	b.Indent()
	b.P("case wire_type")
	b.P("when 0")
	b.Indent()
	b.P("_, pos = r_varint(buf, pos)")
	b.Unindent()
	b.P("when 1")
	b.Indent()
	b.P("pos += 8")
	b.Unindent()
	b.P("when 2")
	b.Indent()
	b.P("len, pos = r_varint(buf, pos)")
	b.P("pos += len")
	b.Unindent()
	b.P("when 5")
	b.Indent()
	b.P("pos += 4")
	b.Unindent()
	b.P("else")
	b.Indent()
	b.P("raise \"protoboeuf: unsupported wire type #{wire_type}\"")
	b.Unindent()
	b.P("end")
	b.P("pos")
	b.Unindent()
	b.P("end")

	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("end")
	b.P0()
}

// varintBytes base-128-LE encodes v, the Go-side half of the fragment
// library: field tags are known at generation time, so their bytes are
// computed once here and spliced into the emitted source as a literal
// instead of a runtime call.
func varintBytes(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			out = append(out, b)
			break
		}
		out = append(out, b|0x80)
	}
	return out
}

// tagBytes computes the literal wire-format tag bytes for a field number
// and wire type: (number << 3) | wire_type.
func tagBytes(number int32, wt WireType) []byte {
	return varintBytes(uint64(number)<<3 | uint64(wt))
}

// rubyByteLiteral renders bs as a binary Ruby string literal, e.g.
// "\x08" or "\x9a\x01".
func rubyByteLiteral(bs []byte) string {
	s := ""
	for _, b := range bs {
		s += fmt.Sprintf("\\x%02x", b)
	}
	return "\"" + s + "\""
}
