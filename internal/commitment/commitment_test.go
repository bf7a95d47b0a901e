package commitment

import (
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/senyabanana/sealed-tender/internal/models"
)

// --- helpers ---

func mustSecret(t *testing.T, s string) SecretKey {
	t.Helper()
	key, err := ParseSecretKey(s)
	if err != nil {
		t.Fatalf("ParseSecretKey(%q): %v", s, err)
	}
	return key
}

func mustHash(t *testing.T, s string) models.Hash {
	t.Helper()
	h, err := models.ParseHash(s)
	if err != nil {
		t.Fatalf("ParseHash(%q): %v", s, err)
	}
	return h
}

// --- wire contract ---

// Векторы посчитаны как keccak256(abi.encodePacked(uint256 amount, string secret)).
func TestCommitGoldenVectors(t *testing.T) {
	tests := []struct {
		amount string
		secret string
		hash   string
	}{
		{"100", "0x00112233445566778899aabbccddeeff", "0x8e010a3271b8c3249988a27ce94da5e527636ea286fd341141283769b8bfc76c"},
		{"80", "0x00112233445566778899aabbccddeeff", "0xf34c8d0da44e3acea344353bcc2ce11b1404840c67ab3eebdf892c29301942ed"},
		{"100", "0xffeeddccbbaa99887766554433221100", "0x2a895e4975d9b591d072f720b7fd4e6ea00d14dd4a1df413668cccb7e1c50e78"},
		{"0", "0x00000000000000000000000000000000", "0x789577410e2905b404f81b07a972b7d337fdeac810ca6e0b5c3031ac133a2246"},
		{
			"115792089237316195423570985008687907853269984665640564039457584007913129639935",
			"0x0123456789abcdef0123456789abcdef",
			"0xe0a3e7eb2f8b2ae9738de3d20e5b4adf9da28f2db886b7238e2109f3ba60ea44",
		},
	}
	for _, tt := range tests {
		amount, err := ParseAmount(tt.amount)
		if err != nil {
			t.Fatalf("ParseAmount(%s): %v", tt.amount, err)
		}
		got, err := Commit(amount, mustSecret(t, tt.secret))
		if err != nil {
			t.Fatalf("Commit(%s, %s): %v", tt.amount, tt.secret, err)
		}
		if got != mustHash(t, tt.hash) {
			t.Errorf("Commit(%s, %s) = %s, want %s", tt.amount, tt.secret, got.Hex(), tt.hash)
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	secret := mustSecret(t, "0x00112233445566778899AABBCCDDEEFF")
	enc := Encode(uint256.NewInt(0x0102), secret)

	if len(enc) != 32+34 {
		t.Fatalf("expected 66 bytes, got %d", len(enc))
	}
	word := enc[:32]
	if !bytes.Equal(word[:30], make([]byte, 30)) || word[30] != 0x01 || word[31] != 0x02 {
		t.Fatalf("amount is not big-endian 32 bytes: %x", word)
	}
	if string(enc[32:]) != "0x00112233445566778899aabbccddeeff" {
		t.Fatalf("secret must be lower-case 0x text, got %q", enc[32:])
	}
}

func TestCommitUpperCaseSecretMatchesCanonical(t *testing.T) {
	amount := uint256.NewInt(100)
	lower, _ := Commit(amount, mustSecret(t, "0x00112233445566778899aabbccddeeff"))
	upper, _ := Commit(amount, mustSecret(t, "00112233445566778899AABBCCDDEEFF"))
	if lower != upper {
		t.Fatal("secret text must be normalized before hashing")
	}
}

func TestCommitNilAmount(t *testing.T) {
	_, err := Commit(nil, SecretKey{})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

// --- properties ---

func TestCommitHiding(t *testing.T) {
	amount := uint256.NewInt(500)
	seen := make(map[models.Hash]bool)
	for i := 0; i < 200; i++ {
		secret, err := GenerateSecretKey()
		if err != nil {
			t.Fatalf("GenerateSecretKey: %v", err)
		}
		h, _ := Commit(amount, secret)
		if seen[h] {
			t.Fatalf("same amount with a fresh secret produced a repeated hash %s", h.Hex())
		}
		seen[h] = true
	}
}

func TestCommitBinding(t *testing.T) {
	secret := mustSecret(t, "0x0123456789abcdef0123456789abcdef")
	seen := make(map[models.Hash]uint64)
	for a := uint64(0); a < 500; a++ {
		h, _ := Commit(uint256.NewInt(a), secret)
		if prev, ok := seen[h]; ok {
			t.Fatalf("amounts %d and %d share a commitment", prev, a)
		}
		seen[h] = a
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	for _, a := range []uint64{0, 1, 10, 80, 100, 1 << 40} {
		secret, err := GenerateSecretKey()
		if err != nil {
			t.Fatalf("GenerateSecretKey: %v", err)
		}
		amount := uint256.NewInt(a)
		h, _ := Commit(amount, secret)
		if !Verify(amount, secret, h) {
			t.Fatalf("Verify(%d) = false for its own commitment", a)
		}
	}
}

func TestVerifyRejectsOtherPairs(t *testing.T) {
	s1 := mustSecret(t, "0x00112233445566778899aabbccddeeff")
	s2 := mustSecret(t, "0xffeeddccbbaa99887766554433221100")
	amounts := []*uint256.Int{uint256.NewInt(80), uint256.NewInt(100)}
	secrets := []SecretKey{s1, s2}

	for i, a := range amounts {
		for j, s := range secrets {
			h, _ := Commit(a, s)
			for k, a2 := range amounts {
				for l, s2 := range secrets {
					want := i == k && j == l
					if got := Verify(a2, s2, h); got != want {
						t.Errorf("Verify(amount#%d, secret#%d) against commit(amount#%d, secret#%d) = %v, want %v",
							k, l, i, j, got, want)
					}
				}
			}
		}
	}
}

func TestVerifyNeverPanics(t *testing.T) {
	if Verify(nil, SecretKey{}, models.Hash{}) {
		t.Fatal("nil amount must not verify")
	}
	if Verify(uint256.NewInt(1), SecretKey{}, models.Hash{}) {
		t.Fatal("zero hash must not verify")
	}
}

// --- secrets ---

func TestGenerateSecretKeyUnique(t *testing.T) {
	seen := make(map[SecretKey]bool)
	for i := 0; i < 1000; i++ {
		key, err := GenerateSecretKey()
		if err != nil {
			t.Fatalf("GenerateSecretKey: %v", err)
		}
		if seen[key] {
			t.Fatalf("secret %s repeated", key)
		}
		seen[key] = true
	}
}

func TestGeneratorUsesReader(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xab}, SecretKeyLength))
	key, err := NewGenerator(src).SecretKey()
	if err != nil {
		t.Fatalf("SecretKey: %v", err)
	}
	if key.String() != "0xabababababababababababababababab" {
		t.Fatalf("unexpected key %s", key)
	}
}

func TestGeneratorShortEntropy(t *testing.T) {
	_, err := NewGenerator(bytes.NewReader([]byte{1, 2, 3})).SecretKey()
	if err == nil {
		t.Fatal("expected error on short entropy source")
	}
}

func TestSecretKeyTextRoundTrip(t *testing.T) {
	key, _ := GenerateSecretKey()
	text, _ := key.MarshalText()
	if len(text) != 34 {
		t.Fatalf("expected 34 characters, got %d", len(text))
	}
	var back SecretKey
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != key {
		t.Fatal("secret changed after text round trip")
	}
}

func TestParseSecretKeyInvalid(t *testing.T) {
	for _, s := range []string{"", "0x", "0x1234", "0xzz112233445566778899aabbccddeeff", "0x00112233445566778899aabbccddeeff00"} {
		if _, err := ParseSecretKey(s); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("ParseSecretKey(%q): expected InvalidInput, got %v", s, err)
		}
	}
}

// --- amounts ---

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0", "0", true},
		{" 42 ", "42", true},
		{"007", "7", true},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", "115792089237316195423570985008687907853269984665640564039457584007913129639935", true},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639936", "", false},
		{"-1", "", false},
		{"+5", "", false},
		{"1.5", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if !tt.ok {
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("ParseAmount(%q): expected InvalidInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if got.Dec() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got.Dec(), tt.want)
		}
	}
}
