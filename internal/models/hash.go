package models

import (
	"encoding/hex"
	"strings"
)

// HashLength - длина хеша коммитмента в байтах.
const HashLength = 32

// Hash - хеш коммитмента фиксированной длины.
type Hash [HashLength]byte

// ParseHash разбирает хеш в виде 0x + 64 hex-символа.
func ParseHash(s string) (Hash, error) {
	var h Hash
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(s) != 2*HashLength {
		return h, InvalidInput("commitment hash must be %d bytes", HashLength)
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, InvalidInput("commitment hash is not hex: %v", err)
	}
	return h, nil
}

// Hex возвращает хеш в виде 0x-строки в нижнем регистре.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// IsZero сообщает, что хеш не заполнен.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
