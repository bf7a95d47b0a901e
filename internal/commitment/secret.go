package commitment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/senyabanana/sealed-tender/internal/models"
)

// SecretKeyLength - длина секрета в байтах.
const SecretKeyLength = 16

// SecretKey - случайный секрет, который скрывает сумму ставки до раскрытия.
// Участник обязан сохранить его до фазы раскрытия.
type SecretKey [SecretKeyLength]byte

// Generator выдаёт секреты из заданного источника энтропии.
type Generator struct {
	rand io.Reader
}

// NewGenerator создаёт генератор поверх r; nil означает crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// SecretKey читает новый секрет из источника энтропии.
func (g *Generator) SecretKey() (SecretKey, error) {
	var key SecretKey
	if _, err := io.ReadFull(g.rand, key[:]); err != nil {
		return SecretKey{}, fmt.Errorf("read entropy: %w", err)
	}
	return key, nil
}

var defaultGenerator = NewGenerator(nil)

// GenerateSecretKey возвращает новый секрет из crypto/rand.
func GenerateSecretKey() (SecretKey, error) {
	return defaultGenerator.SecretKey()
}

// ParseSecretKey разбирает секрет: необязательный префикс 0x и ровно 32 hex-символа в любом регистре.
func ParseSecretKey(s string) (SecretKey, error) {
	var key SecretKey
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != 2*SecretKeyLength {
		return key, models.InvalidInput("secret key must be %d hex characters", 2*SecretKeyLength)
	}
	if _, err := hex.Decode(key[:], []byte(s)); err != nil {
		return key, models.InvalidInput("secret key is not hex")
	}
	return key, nil
}

// String возвращает каноническую запись секрета: 0x и hex в нижнем регистре.
// Именно эти байты UTF-8 входят в прообраз хеша.
func (k SecretKey) String() string {
	return "0x" + hex.EncodeToString(k[:])
}

func (k SecretKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SecretKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSecretKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
