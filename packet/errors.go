package packet

import "errors"

var (
	ErrEmptyPacket       = errors.New("packet is empty")
	ErrPacketOverflow    = errors.New("packet content exceeds 19 bytes")
	ErrSegmentOutOfRange = errors.New("segment id does not fit in mask")
	ErrPayloadTooLarge   = errors.New("scene payload needs more than 255 chunks")
)
