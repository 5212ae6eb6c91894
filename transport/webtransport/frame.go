package webtransport

import (
	"encoding/binary"
	"errors"
	"io"
)

// Frames are length-prefixed: a length byte below 126 is the length itself,
// 126 is followed by a 16-bit length and 127 by a 64-bit length (big endian).

const DefaultMaxFrameSize = 1 << 20

var ErrFrameTooLarge = errors.New("webtransport: frame too large")

func writeFrame(w io.Writer, data []byte) error {
	var (
		header []byte
		n      = len(data)
	)
	if n < 126 {
		header = []byte{byte(n)}
	} else if n < 65536 {
		header = make([]byte, 3)
		header[0] = 126
		binary.BigEndian.PutUint16(header[1:], uint16(n))
	} else {
		header = make([]byte, 9)
		header[0] = 127
		binary.BigEndian.PutUint64(header[1:], uint64(n))
	}

	// Header and payload go out in a single write.
	buf := make([]byte, 0, len(header)+n)
	buf = append(buf, header...)
	buf = append(buf, data...)
	_, err := w.Write(buf)
	return err
}

func readFrame(r io.Reader, maxSize int) ([]byte, error) {
	var first [1]byte
	_, err := io.ReadFull(r, first[:])
	if err != nil {
		return nil, err
	}

	var n uint64
	switch l := first[0] & 0x7f; {
	case l < 126:
		n = uint64(l)
	case l == 126:
		var ext [2]byte
		_, err = io.ReadFull(r, ext[:])
		if err != nil {
			return nil, err
		}
		n = uint64(binary.BigEndian.Uint16(ext[:]))
	default:
		var ext [8]byte
		_, err = io.ReadFull(r, ext[:])
		if err != nil {
			return nil, err
		}
		n = binary.BigEndian.Uint64(ext[:])
	}

	if maxSize > 0 && n > uint64(maxSize) {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, n)
	_, err = io.ReadFull(r, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}
