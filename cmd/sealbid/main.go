// Команда sealbid запечатывает и проверяет ставки без обращения к серверу.
//
//	sealbid secret
//	sealbid commit --amount 100 [--secret 0x...]
//	sealbid verify --amount 100 --secret 0x... --commitment 0x...
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/senyabanana/sealed-tender/internal/commitment"
	"github.com/senyabanana/sealed-tender/internal/models"

	"github.com/spf13/pflag"
)

const usage = `usage:
  sealbid secret
  sealbid commit --amount N [--secret 0x...]
  sealbid verify --amount N --secret 0x... --commitment 0x...`

var errUsage = errors.New(usage)

type sealedOutput struct {
	Amount     string               `json:"amount"`
	Secret     commitment.SecretKey `json:"secret"`
	Commitment models.Hash          `json:"commitment"`
	Encoding   string               `json:"encoding"`
}

type verifyOutput struct {
	Valid bool `json:"valid"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	amountText := fs.String("amount", "", "bid amount, decimal")
	secretText := fs.String("secret", "", "secret, 0x + 32 hex")
	hashText := fs.String("commitment", "", "commitment, 0x + 64 hex")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%v\n%s", err, usage)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch args[0] {
	case "secret":
		secret, err := commitment.GenerateSecretKey()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, secret)
		return err

	case "commit":
		amount, err := commitment.ParseAmount(*amountText)
		if err != nil {
			return err
		}
		var secret commitment.SecretKey
		if *secretText == "" {
			secret, err = commitment.GenerateSecretKey()
		} else {
			secret, err = commitment.ParseSecretKey(*secretText)
		}
		if err != nil {
			return err
		}
		hash, err := commitment.Commit(amount, secret)
		if err != nil {
			return err
		}
		return enc.Encode(sealedOutput{
			Amount:     amount.Dec(),
			Secret:     secret,
			Commitment: hash,
			Encoding:   commitment.EncodingVersion,
		})

	case "verify":
		amount, err := commitment.ParseAmount(*amountText)
		if err != nil {
			return err
		}
		secret, err := commitment.ParseSecretKey(*secretText)
		if err != nil {
			return err
		}
		hash, err := models.ParseHash(*hashText)
		if err != nil {
			return err
		}
		return enc.Encode(verifyOutput{Valid: commitment.Verify(amount, secret, hash)})
	}
	return errUsage
}
