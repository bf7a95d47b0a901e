// Package commitment вычисляет и проверяет коммитменты закрытых ставок.
//
// Кодировка прообраза зафиксирована и совпадает с
// keccak256(abi.encodePacked(uint256 amount, string secret)) в контракте:
// 32 байта суммы в big-endian, затем байты UTF-8 канонической записи секрета
// ("0x" + 32 hex-символа в нижнем регистре). Любое изменение кодировки или
// хеш-функции ломает проверку раскрытия на стороне леджера.
package commitment

import (
	"crypto/subtle"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/senyabanana/sealed-tender/internal/models"
)

// EncodingVersion идентифицирует зафиксированный контракт хеширования.
const EncodingVersion = "keccak256(uint256be||utf8(0xhex(secret)))/v1"

// Encode возвращает канонический прообраз коммитмента.
func Encode(amount *uint256.Int, secret SecretKey) []byte {
	word := amount.Bytes32()
	text := secret.String()
	buf := make([]byte, 0, len(word)+len(text))
	buf = append(buf, word[:]...)
	return append(buf, text...)
}

// Commit вычисляет коммитмент ставки.
func Commit(amount *uint256.Int, secret SecretKey) (models.Hash, error) {
	if amount == nil {
		return models.Hash{}, models.InvalidInput("amount is required")
	}
	return keccak256(Encode(amount, secret)), nil
}

// Verify сообщает, соответствует ли пара (сумма, секрет) заявленному коммитменту.
func Verify(amount *uint256.Int, secret SecretKey, claimed models.Hash) bool {
	if amount == nil {
		return false
	}
	got := keccak256(Encode(amount, secret))
	return subtle.ConstantTimeCompare(got[:], claimed[:]) == 1
}

func keccak256(data []byte) models.Hash {
	var h models.Hash
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	d.Sum(h[:0])
	return h
}
