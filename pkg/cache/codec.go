package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/pierrec/lz4/v4"
)

const (
	flagRaw byte = 0
	flagLZ4 byte = 1

	// maxEntrySize bounds the decode allocation against corrupt headers.
	maxEntrySize = 1 << 30
)

var (
	magic = [4]byte{'G', 'G', 'C', '1'}

	errCorrupt = errors.New("corrupt cache entry")
)

// encodeBlob frames blob as magic, flag, uncompressed size, payload. The
// payload is an lz4 block unless compression does not pay, then raw.
func encodeBlob(blob []byte) []byte {
	out := make([]byte, 0, len(magic)+1+4+len(blob))
	out = append(out, magic[:]...)

	compressed := make([]byte, lz4.CompressBlockBound(len(blob)))

	written, err := lz4.CompressBlock(blob, compressed, nil)
	if err != nil || written == 0 || written >= len(blob) {
		out = append(out, flagRaw)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(blob)))

		return append(out, blob...)
	}

	out = append(out, flagLZ4)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(blob)))

	return append(out, compressed[:written]...)
}

func decodeEntry(raw []byte) (entry, error) {
	headerLen := len(magic) + 1 + 4
	if len(raw) < headerLen || !bytes.Equal(raw[:len(magic)], magic[:]) {
		return entry{}, errCorrupt
	}

	flag := raw[len(magic)]
	size := binary.LittleEndian.Uint32(raw[len(magic)+1 : headerLen])
	payload := raw[headerLen:]

	if size > maxEntrySize {
		return entry{}, errCorrupt
	}

	var blob []byte

	switch flag {
	case flagRaw:
		if uint32(len(payload)) != size {
			return entry{}, errCorrupt
		}

		blob = payload
	case flagLZ4:
		blob = make([]byte, size)
		if _, err := lz4.UncompressBlock(payload, blob); err != nil {
			return entry{}, errCorrupt
		}
	default:
		return entry{}, errCorrupt
	}

	var stored entry
	if err := json.Unmarshal(blob, &stored); err != nil {
		return entry{}, errCorrupt
	}

	return stored, nil
}
