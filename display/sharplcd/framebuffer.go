// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sharplcd

// Panel geometry. Fixed by the LS027B7DH01 datasheet; never configurable.
const (
	Width     = 400
	Height    = 240
	LineBytes = 50
	// BufferSize is Height*LineBytes.
	BufferSize = Height * LineBytes
)

// flushPacketSize is one mode byte, Height lines of (1 address byte + 50
// data bytes), and one trailer byte.
const flushPacketSize = 1 + Height*(1+LineBytes) + 1

// FrameBuffer is a 1bpp, MSB-first-within-byte framebuffer for the panel.
// It is a fixed array, not a slice: the zero value is a fully cleared
// (white) buffer and no allocation is ever required to construct one.
type FrameBuffer struct {
	bytes [BufferSize]byte
}

// Clear fills the framebuffer with 0xFF (on) or 0x00 (off/white).
func (f *FrameBuffer) Clear(on bool) {
	fill := byte(0x00)
	if on {
		fill = 0xFF
	}
	for i := range f.bytes {
		f.bytes[i] = fill
	}
}

// SetPixel sets pixel (x,y) and reports whether it was in bounds. Writes
// outside [0,Width)x[0,Height) are silent no-ops.
func (f *FrameBuffer) SetPixel(x, y int, on bool) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	idx := y*LineBytes + x/8
	bit := byte(7 - uint(x%8))
	if on {
		f.bytes[idx] |= 1 << bit
	} else {
		f.bytes[idx] &^= 1 << bit
	}
	return true
}

// Pixel returns the bit at (x,y) and whether the coordinate was in bounds.
func (f *FrameBuffer) Pixel(x, y int) (on, ok bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false, false
	}
	idx := y*LineBytes + x/8
	bit := byte(7 - uint(x%8))
	return f.bytes[idx]&(1<<bit) != 0, true
}

// Line returns a read-only view of the 50 packed bytes for line l, where l
// is 1-based per the wire protocol (l in [1,Height]).
func (f *FrameBuffer) Line(l int) ([]byte, bool) {
	if l < 1 || l > Height {
		return nil, false
	}
	start := (l - 1) * LineBytes
	return f.bytes[start : start+LineBytes], true
}

// SetLine overwrites one packed line. data must be exactly LineBytes long.
func (f *FrameBuffer) SetLine(l int, data []byte) bool {
	if l < 1 || l > Height || len(data) != LineBytes {
		return false
	}
	start := (l - 1) * LineBytes
	copy(f.bytes[start:start+LineBytes], data)
	return true
}

// EncodeLineAddress returns the wire address for line l (reverse_bits(l)),
// or false if l is outside [1,Height].
func EncodeLineAddress(l int) (byte, bool) {
	if l < 1 || l > Height {
		return 0, false
	}
	return reverseBits(byte(l)), true
}

func reverseBits(b byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		out <<= 1
		out |= b & 1
		b >>= 1
	}
	return out
}

// modeByte multiplexes the three panel mode bits: M0 (write-enable), M1
// (VCOM), M2 (all-clear).
func modeByte(writeEnable, vcom, allClear bool) byte {
	var b byte
	if writeEnable {
		b |= 1 << 7
	}
	if vcom {
		b |= 1 << 6
	}
	if allClear {
		b |= 1 << 5
	}
	return b
}

// BuildClearPacket returns the 3-byte all-clear command.
func BuildClearPacket(vcom bool) [3]byte {
	return [3]byte{modeByte(false, vcom, true), 0, 0}
}

// BuildWriteLinePacket returns the 54-byte single-line write command, or
// false if l is outside [1,Height].
func BuildWriteLinePacket(l int, data []byte, vcom bool) ([54]byte, bool) {
	var pkt [54]byte
	addr, ok := EncodeLineAddress(l)
	if !ok || len(data) != LineBytes {
		return pkt, false
	}
	pkt[0] = modeByte(true, vcom, false)
	pkt[1] = addr
	copy(pkt[2:2+LineBytes], data)
	return pkt, true
}

// BuildFlushPacket fills out with the full multi-line flush packet: one
// mode byte, then (address, 50 data bytes) for every line 1..Height, then
// one trailer byte. out must be at least flushPacketSize bytes; the
// written length is returned.
func (f *FrameBuffer) BuildFlushPacket(out []byte, vcom bool) int {
	if len(out) < flushPacketSize {
		return 0
	}
	out[0] = modeByte(true, vcom, false)
	pos := 1
	for l := 1; l <= Height; l++ {
		addr, _ := EncodeLineAddress(l)
		out[pos] = addr
		pos++
		line, _ := f.Line(l)
		copy(out[pos:pos+LineBytes], line)
		pos += LineBytes
	}
	out[pos] = 0
	pos++
	return pos
}

// FlushPacketSize returns the byte length BuildFlushPacket requires.
func FlushPacketSize() int {
	return flushPacketSize
}
