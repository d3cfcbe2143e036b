package cryptography

import (
	"crypto/hmac"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const KeySize = 32

// SymmetricKey signs with HMAC-SHA3-256.
type SymmetricKey []byte

func GenerateKey(r io.Reader) (SymmetricKey, error) {
	k := make(SymmetricKey, KeySize)
	if _, err := io.ReadFull(r, k); err != nil {
		return nil, errors.Wrap(err, "generating key")
	}
	return k, nil
}

func (k SymmetricKey) Sign(payload []byte) []byte {
	h := hmac.New(sha3.New256, k)
	h.Write(payload)
	return h.Sum(nil)
}

func (k SymmetricKey) Verify(payload, sig []byte) bool {
	return hmac.Equal(sig, k.Sign(payload))
}

// SignMultibase returns the signature of payload in base58btc multibase form.
func (k SymmetricKey) SignMultibase(payload []byte) (string, error) {
	return EncodeMultibase(k.Sign(payload))
}

func (k SymmetricKey) VerifyMultibase(payload []byte, sig string) bool {
	raw, err := DecodeMultibase(sig)
	if err != nil {
		return false
	}
	return k.Verify(payload, raw)
}
