package packet

import "fmt"

// SegmentByteLength is the number of bytes needed for a mask that covers
// segment maxID, which occupies bit maxID-1.
func SegmentByteLength(maxID int) int {
	if maxID <= 0 {
		return 0
	}
	return (maxID + 7) / 8
}

// SegmentMask sets bit id-1 for every segment id and returns the mask as
// byteLen little-endian bytes.
func SegmentMask(ids []int, byteLen int) ([]byte, error) {
	mask := make([]byte, byteLen)
	for _, id := range ids {
		if id < 1 || id > byteLen*8 {
			return nil, fmt.Errorf("%w: id %d, width %d bytes", ErrSegmentOutOfRange, id, byteLen)
		}
		bit := id - 1
		mask[bit/8] |= 1 << uint(bit%8)
	}
	return mask, nil
}
