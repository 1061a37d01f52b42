// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sharplcd

import "testing"

func TestSetPixelBounds(t *testing.T) {
	var fb FrameBuffer
	if !fb.SetPixel(0, 0, true) {
		t.Fatal("in-bounds SetPixel returned false")
	}
	on, ok := fb.Pixel(0, 0)
	if !ok || !on {
		t.Fatalf("Pixel(0,0) = %v,%v, want true,true", on, ok)
	}

	cases := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {Width, 0}, {0, Height}, {Width, Height},
	}
	for _, c := range cases {
		if fb.SetPixel(c.x, c.y, true) {
			t.Errorf("SetPixel(%d,%d) out of bounds returned true", c.x, c.y)
		}
		if _, ok := fb.Pixel(c.x, c.y); ok {
			t.Errorf("Pixel(%d,%d) out of bounds returned ok=true", c.x, c.y)
		}
	}
}

func TestEncodeLineAddress(t *testing.T) {
	cases := []struct {
		l      int
		want   byte
		wantOK bool
	}{
		{1, 0x80, true},
		{2, 0x40, true},
		{3, 0xC0, true},
		{238, 0x77, true},
		{239, 0xF7, true},
		{240, 0x0F, true},
		{0, 0, false},
		{241, 0, false},
	}
	for _, c := range cases {
		got, ok := EncodeLineAddress(c.l)
		if ok != c.wantOK {
			t.Errorf("EncodeLineAddress(%d) ok=%v, want %v", c.l, ok, c.wantOK)
			continue
		}
		if ok && got != c.want {
			t.Errorf("EncodeLineAddress(%d) = %#02x, want %#02x", c.l, got, c.want)
		}
	}
}

// S1: bit mapping.
func TestBitMapping(t *testing.T) {
	var fb FrameBuffer
	fb.SetPixel(0, 0, true)
	fb.SetPixel(7, 0, true)
	fb.SetPixel(8, 0, true)

	line, ok := fb.Line(1)
	if !ok {
		t.Fatal("Line(1) not ok")
	}
	want := [LineBytes]byte{0b1000_0001, 0b1000_0000}
	for i, w := range want {
		if line[i] != w {
			t.Errorf("line[%d] = %#08b, want %#08b", i, line[i], w)
		}
	}
	for i := 2; i < LineBytes; i++ {
		if line[i] != 0 {
			t.Errorf("line[%d] = %#08b, want 0", i, line[i])
		}
	}
}

// S3: write-line packet.
func TestBuildWriteLinePacket(t *testing.T) {
	data := make([]byte, LineBytes)
	data[0] = 0xAA
	data[LineBytes-1] = 0x55

	pkt, ok := BuildWriteLinePacket(10, data, false)
	if !ok {
		t.Fatal("BuildWriteLinePacket not ok")
	}
	if pkt[0] != 0x80 {
		t.Errorf("pkt[0] = %#02x, want 0x80", pkt[0])
	}
	wantAddr, _ := EncodeLineAddress(10)
	if pkt[1] != wantAddr {
		t.Errorf("pkt[1] = %#02x, want %#02x", pkt[1], wantAddr)
	}
	if pkt[2] != 0xAA {
		t.Errorf("pkt[2] = %#02x, want 0xAA", pkt[2])
	}
	if pkt[51] != 0x55 {
		t.Errorf("pkt[51] = %#02x, want 0x55", pkt[51])
	}
	if pkt[52] != 0 || pkt[53] != 0 {
		t.Errorf("trailer bytes = %#02x,%#02x, want 0,0", pkt[52], pkt[53])
	}

	if _, ok := BuildWriteLinePacket(0, data, false); ok {
		t.Error("BuildWriteLinePacket(0) should fail")
	}
	if _, ok := BuildWriteLinePacket(241, data, false); ok {
		t.Error("BuildWriteLinePacket(241) should fail")
	}
}

func TestBuildClearPacket(t *testing.T) {
	pkt := BuildClearPacket(false)
	if pkt != [3]byte{0x20, 0, 0} {
		t.Errorf("clear packet = %v, want [0x20 0 0]", pkt)
	}
	pkt = BuildClearPacket(true)
	if pkt[0] != 0x60 {
		t.Errorf("clear packet with vcom = %#02x, want 0x60", pkt[0])
	}
}

func TestSetLineRoundTrip(t *testing.T) {
	var fb FrameBuffer
	data := make([]byte, LineBytes)
	for i := range data {
		data[i] = byte(i)
	}
	if !fb.SetLine(5, data) {
		t.Fatal("SetLine failed")
	}
	line, ok := fb.Line(5)
	if !ok {
		t.Fatal("Line failed")
	}
	for i := range data {
		if line[i] != data[i] {
			t.Errorf("line[%d] = %d, want %d", i, line[i], data[i])
		}
	}
	if fb.SetLine(5, data[:10]) {
		t.Error("SetLine with wrong length should fail")
	}
}

func TestBuildFlushPacket(t *testing.T) {
	var fb FrameBuffer
	fb.SetPixel(0, 0, true)
	buf := make([]byte, FlushPacketSize())
	n := fb.BuildFlushPacket(buf, true)
	if n != FlushPacketSize() {
		t.Fatalf("BuildFlushPacket wrote %d bytes, want %d", n, FlushPacketSize())
	}
	if buf[0] != 0xC0 {
		t.Errorf("mode byte = %#02x, want 0xC0", buf[0])
	}
	wantAddr, _ := EncodeLineAddress(1)
	if buf[1] != wantAddr {
		t.Errorf("first line address = %#02x, want %#02x", buf[1], wantAddr)
	}
	if buf[2] != 0b1000_0000 {
		t.Errorf("first line data byte = %#08b, want 0b10000000", buf[2])
	}
	if buf[n-1] != 0 {
		t.Errorf("trailer byte = %#02x, want 0", buf[n-1])
	}

	short := make([]byte, 3)
	if fb.BuildFlushPacket(short, true) != 0 {
		t.Error("BuildFlushPacket with short buffer should return 0")
	}
}
