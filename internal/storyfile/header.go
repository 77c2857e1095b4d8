package storyfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const headerSize = 64

// ErrShortHeader indicates the file is too small to carry a Z-machine header.
var ErrShortHeader = errors.New("story file shorter than Z-machine header")

// Header is the subset of the Z-machine header identifying a build.
type Header struct {
	Version  int
	Release  int
	Serial   string
	Length   int64 // file length in bytes as declared by the header; 0 if unset
	Checksum uint16
}

// ReadHeader decodes the header of the story file at path.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Header{}, fmt.Errorf("%w: %s", ErrShortHeader, path)
		}
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	return ParseHeader(buf)
}

// ParseHeader decodes a raw header block.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, ErrShortHeader
	}
	h := Header{
		Version:  int(buf[0x00]),
		Release:  int(binary.BigEndian.Uint16(buf[0x02:0x04])),
		Serial:   string(buf[0x12:0x18]),
		Checksum: binary.BigEndian.Uint16(buf[0x1C:0x1E]),
	}
	packed := int64(binary.BigEndian.Uint16(buf[0x1A:0x1C]))
	switch {
	case h.Version >= 1 && h.Version <= 3:
		h.Length = packed * 2
	case h.Version == 4 || h.Version == 5:
		h.Length = packed * 4
	case h.Version >= 6 && h.Version <= 8:
		h.Length = packed * 8
	}
	return h, nil
}
