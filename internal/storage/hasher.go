package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ErrMalformedKey is returned when a stored key cannot be split back into
// its encoded parts.
var ErrMalformedKey = errors.New("malformed storage key")

// Hasher turns an encoded map key into a key segment. Both hashers are
// reversible: the encoded key is kept in the segment.
type Hasher uint8

const (
	// Identity stores uvarint(len) ‖ key.
	Identity Hasher = iota
	// Twox64Concat stores xxhash64(key) ‖ uvarint(len) ‖ key, spreading
	// entries evenly over the key space.
	Twox64Concat
)

func (h Hasher) String() string {
	switch h {
	case Identity:
		return "Identity"
	case Twox64Concat:
		return "Twox64Concat"
	default:
		return fmt.Sprintf("Hasher(%d)", uint8(h))
	}
}

// AppendSegment appends the segment for encoded to dst.
func (h Hasher) AppendSegment(dst, encoded []byte) []byte {
	if h == Twox64Concat {
		dst = binary.BigEndian.AppendUint64(dst, xxhash.Sum64(encoded))
	}
	dst = binary.AppendUvarint(dst, uint64(len(encoded)))
	return append(dst, encoded...)
}

// Split reads one segment from the front of data and returns the encoded key
// and whatever follows the segment.
func (h Hasher) Split(data []byte) (encoded, rest []byte, err error) {
	var sum uint64
	if h == Twox64Concat {
		if len(data) < 8 {
			return nil, nil, fmt.Errorf("%w: short hash", ErrMalformedKey)
		}
		sum = binary.BigEndian.Uint64(data)
		data = data[8:]
	}

	n, read := binary.Uvarint(data)
	if read <= 0 {
		return nil, nil, fmt.Errorf("%w: bad length", ErrMalformedKey)
	}
	data = data[read:]
	if uint64(len(data)) < n {
		return nil, nil, fmt.Errorf("%w: length %d exceeds %d remaining bytes", ErrMalformedKey, n, len(data))
	}
	encoded, rest = data[:n], data[n:]

	if h == Twox64Concat && xxhash.Sum64(encoded) != sum {
		return nil, nil, fmt.Errorf("%w: hash mismatch", ErrMalformedKey)
	}
	return encoded, rest, nil
}
