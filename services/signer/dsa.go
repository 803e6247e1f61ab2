package signer

import (
	"crypto/dsa"
	"crypto/rand"
	"encoding/asn1"
	"math/big"
	"sync"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
)

// Key material is stored as the five DSA integers in base 10, matching the
// key exchange format between nodes. Signatures travel as the ASN.1
// sequence of r and s.

type dsaSignature struct {
	R, S *big.Int
}

var (
	sharedParamsOnce sync.Once
	sharedParams     dsa.Parameters
	sharedParamsErr  error
)

// sharedParameters generates the DSA domain parameters once per process.
// Parameter generation is by far the slowest part of key creation, and
// sharing P, Q and G between identities is sound.
func sharedParameters() (dsa.Parameters, error) {
	sharedParamsOnce.Do(func() {
		sharedParamsErr = dsa.GenerateParameters(&sharedParams, rand.Reader, dsa.L1024N160)
	})

	return sharedParams, sharedParamsErr
}

func generateKey() (*dsa.PrivateKey, error) {
	params, err := sharedParameters()
	if err != nil {
		return nil, errors.NewKeyError("failed to generate dsa parameters", err)
	}

	key := &dsa.PrivateKey{}
	key.Parameters = params

	if err := dsa.GenerateKey(key, rand.Reader); err != nil {
		return nil, errors.NewKeyError("failed to generate dsa key", err)
	}

	return key, nil
}

func recordFromKey(name string, key *dsa.PrivateKey) *model.KeyRecord {
	return &model.KeyRecord{
		Name: name,
		P:    key.P.String(),
		Q:    key.Q.String(),
		G:    key.G.String(),
		X:    key.X.String(),
		Y:    key.Y.String(),
	}
}

func keyFromRecord(record *model.KeyRecord) (*dsa.PrivateKey, error) {
	key := &dsa.PrivateKey{}

	fields := []struct {
		name  string
		value string
		dst   **big.Int
	}{
		{"p", record.P, &key.P},
		{"q", record.Q, &key.Q},
		{"g", record.G, &key.G},
		{"x", record.X, &key.X},
		{"y", record.Y, &key.Y},
	}

	for _, f := range fields {
		v, ok := new(big.Int).SetString(f.value, 10)
		if !ok {
			return nil, errors.NewKeyError("key %s has an invalid %s parameter", record.Name, f.name)
		}

		*f.dst = v
	}

	return key, nil
}

func marshalSignature(r, s *big.Int) ([]byte, error) {
	sig, err := asn1.Marshal(dsaSignature{R: r, S: s})
	if err != nil {
		return nil, errors.NewKeyError("failed to marshal signature", err)
	}

	return sig, nil
}

func unmarshalSignature(sig []byte) (*dsaSignature, error) {
	parsed := &dsaSignature{}

	rest, err := asn1.Unmarshal(sig, parsed)
	if err != nil {
		return nil, errors.NewKeyError("failed to unmarshal signature", err)
	}

	if len(rest) > 0 {
		return nil, errors.NewKeyError("trailing bytes after signature")
	}

	return parsed, nil
}
