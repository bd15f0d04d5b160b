package packet

import "fmt"

const (
	// MaxChunks is the most chunks SceneChunks can produce; the chunk count
	// is carried in a single byte.
	MaxChunks = 255

	// lastChunk marks the final chunk in place of its index. A real
	// index of 0xFF would be indistinguishable, which MaxChunks avoids.
	lastChunk = 0xFF

	firstHeaderSize = 5
	headerSize      = 2
)

var firstChunkHeader = []byte{0x01, 0x00, 0x02}

// SceneChunks splits a scene parameter blob into SCENE_DATA frames.
//
// Chunk i starts with the SCENE_DATA prefix and i. The first chunk also
// carries 01 00 02, whose middle byte is replaced by the chunk count. When
// there is more than one chunk the final chunk's index is replaced by 0xFF.
func SceneChunks(raw []byte) ([]Packet, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyPacket
	}

	var contents [][]byte
	for i := 0; len(raw) > 0; i++ {
		if i >= MaxChunks {
			return nil, fmt.Errorf("%w: %d bytes remaining", ErrPayloadTooLarge, len(raw))
		}
		content := append(SceneData.Prefix(), byte(i))
		if i == 0 {
			content = append(content, firstChunkHeader...)
		}
		n := ContentSize - len(content)
		if n > len(raw) {
			n = len(raw)
		}
		content = append(content, raw[:n]...)
		raw = raw[n:]
		contents = append(contents, content)
	}

	contents[0][3] = byte(len(contents))
	if len(contents) > 1 {
		contents[len(contents)-1][1] = lastChunk
	}

	packets := make([]Packet, 0, len(contents))
	for _, content := range contents {
		p, err := Build(Bytes(content...))
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
	return packets, nil
}

// SceneCapacity is the number of payload bytes n chunks can carry.
func SceneCapacity(n int) int {
	if n <= 0 {
		return 0
	}
	return ContentSize - firstHeaderSize + (n-1)*(ContentSize-headerSize)
}

// ScenePayload reassembles the first n payload bytes carried by chunks
// produced by SceneChunks. Padding cannot be told apart from payload, so the
// original length must be known.
func ScenePayload(chunks []Packet, n int) []byte {
	out := make([]byte, 0, n)
	for i, c := range chunks {
		start := headerSize
		if i == 0 {
			start = firstHeaderSize
		}
		body := c[start:ContentSize]
		if remaining := n - len(out); len(body) > remaining {
			body = body[:remaining]
		}
		out = append(out, body...)
	}
	return out
}
