package cryptography

import (
	"github.com/multiformats/go-multibase"
	"github.com/pkg/errors"
)

func DecodeMultibase(mb string) ([]byte, error) {
	_, d, err := multibase.Decode(mb)
	if err != nil {
		return nil, errors.Wrap(err, "decoding multibase")
	}
	return d, nil
}

func EncodeMultibase(raw []byte) (string, error) {
	return multibase.Encode(multibase.Base58BTC, raw)
}
