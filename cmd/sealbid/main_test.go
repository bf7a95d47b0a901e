package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const (
	vectorSecret = "0x00112233445566778899aabbccddeeff"
	vectorHash   = "0x8e010a3271b8c3249988a27ce94da5e527636ea286fd341141283769b8bfc76c"
)

func TestCommitWithGivenSecret(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"commit", "--amount", "100", "--secret", vectorSecret}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got sealedOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", out.String(), err)
	}
	if got.Commitment.Hex() != vectorHash || got.Amount != "100" || got.Secret.String() != vectorSecret {
		t.Fatalf("output = %s", out.String())
	}
}

func TestVerify(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"100", `"valid": true`},
		{"80", `"valid": false`},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		err := run([]string{"verify", "--amount", tc.amount, "--secret", vectorSecret, "--commitment", vectorHash}, &out)
		if err != nil {
			t.Fatalf("run(%s): %v", tc.amount, err)
		}
		if !strings.Contains(out.String(), tc.want) {
			t.Fatalf("amount %s: output %s", tc.amount, out.String())
		}
	}
}

func TestSecretIsFresh(t *testing.T) {
	var a, b bytes.Buffer
	if err := run([]string{"secret"}, &a); err != nil {
		t.Fatalf("run: %v", err)
	}
	_ = run([]string{"secret"}, &b)
	if a.String() == b.String() || !strings.HasPrefix(a.String(), "0x") || len(strings.TrimSpace(a.String())) != 34 {
		t.Fatalf("secrets %q %q", a.String(), b.String())
	}
}

func TestRunErrors(t *testing.T) {
	cases := [][]string{
		nil,
		{"launch"},
		{"commit", "--amount", "-1"},
		{"commit", "--bogus"},
		{"verify", "--amount", "1", "--secret", "0x12"},
	}
	for _, args := range cases {
		if err := run(args, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%q) succeeded", args)
		}
	}
}
