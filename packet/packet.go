// Package packet encodes the fixed size frames understood by Govee BLE
// lights.
//
// Every frame is 20 bytes: command prefix, payload, zero padding and a
// trailing XOR checksum over the first 19 bytes. There is no other framing;
// the GATT characteristic write delimits frames.
package packet

import (
	"encoding/hex"
	"fmt"
)

const (
	// Size is the length of every frame on the wire.
	Size = 20
	// ContentSize is the room left for prefix and payload.
	ContentSize = Size - 1
)

// Packet is a complete frame ready to be written to the device.
type Packet [Size]byte

// Part is one piece of frame content. Use Prefix, Byte or Bytes; a nil Part
// contributes nothing.
type Part interface {
	appendTo(dst []byte) []byte
}

type prefixPart CommandType

type bytePart byte

type bytesPart []byte

func (p prefixPart) appendTo(dst []byte) []byte {
	return append(dst, prefixes[CommandType(p)]...)
}

func (p bytePart) appendTo(dst []byte) []byte {
	return append(dst, byte(p))
}

func (p bytesPart) appendTo(dst []byte) []byte {
	return append(dst, p...)
}

// Prefix contributes the command's prefix bytes.
func Prefix(c CommandType) Part { return prefixPart(c) }

// Byte contributes a single byte.
func Byte(b byte) Part { return bytePart(b) }

// Bytes contributes b verbatim.
func Bytes(b ...byte) Part { return bytesPart(b) }

// Build concatenates parts in order, zero pads the result and appends the
// checksum.
func Build(parts ...Part) (Packet, error) {
	var p Packet
	content := make([]byte, 0, ContentSize)
	for _, part := range parts {
		if part == nil {
			continue
		}
		content = part.appendTo(content)
	}
	if len(content) == 0 {
		return p, ErrEmptyPacket
	}
	if len(content) > ContentSize {
		return p, fmt.Errorf("%w: got %d bytes", ErrPacketOverflow, len(content))
	}
	copy(p[:], content)
	p[ContentSize] = Checksum(p[:ContentSize])
	return p, nil
}

// MustBuild is like Build but panics on error. It is meant for fixed
// content such as query commands.
func MustBuild(parts ...Part) Packet {
	p, err := Build(parts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Checksum XORs all bytes of b.
func Checksum(b []byte) byte {
	var sum byte
	for _, x := range b {
		sum ^= x
	}
	return sum
}

// Valid reports whether the trailing checksum matches the content.
func (p Packet) Valid() bool {
	return p[ContentSize] == Checksum(p[:ContentSize])
}

// Bytes returns the frame as a slice.
func (p Packet) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, p[:])
	return b
}

func (p Packet) String() string {
	return hex.EncodeToString(p[:])
}
