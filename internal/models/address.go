package models

import (
	"encoding/hex"
	"strings"
)

// Address - адрес участника в леджере, хранится в нижнем регистре.
type Address string

// ParseAddress проверяет формат 0x + 40 hex-символов и приводит адрес к нижнему регистру.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if len(s) != 42 || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return "", InvalidInput("invalid address %q", s)
	}
	if _, err := hex.DecodeString(s[2:]); err != nil {
		return "", InvalidInput("invalid address %q", s)
	}
	return Address("0x" + strings.ToLower(s[2:])), nil
}

// Equal сравнивает адреса без учёта регистра.
func (a Address) Equal(b Address) bool {
	return a != "" && strings.EqualFold(string(a), string(b))
}

func (a Address) String() string {
	return string(a)
}
