package asset

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Handle identifies an asset independently of its location.
type Handle uint64

// NullHandle is the zero handle.
const NullHandle Handle = 0

// NewHandle returns a random non-null handle.
func NewHandle() Handle {
	for {
		id := uuid.New()
		h := Handle(binary.LittleEndian.Uint64(id[0:8]) ^ binary.LittleEndian.Uint64(id[8:16]))
		if h != NullHandle {
			return h
		}
	}
}

// ParseHandle parses the decimal form produced by String.
func ParseHandle(s string) (Handle, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NullHandle, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	return Handle(v), nil
}

// IsValid reports whether h is not the null handle.
func (h Handle) IsValid() bool {
	return h != NullHandle
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}
