// Package signer manages user identities and transaction signatures.
//
// Each user owns a DSA key pair stored in the key store under the
// lowercased user name. Signatures cover the null-stripped, sorted
// concatenation of the transaction cells, so signer and verifier agree on
// the input regardless of column order.
package signer

import (
	"context"
	"crypto/dsa"
	"crypto/rand"
	"crypto/sha1"
	"strings"
	"sync"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/stores/keystore"
	"github.com/colchain/colchain/ulogger"
)

type Signer struct {
	logger ulogger.Logger
	store  keystore.Store

	mu           sync.Mutex
	signNext     bool
	signNextName string
}

func New(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings, store keystore.Store) (*Signer, error) {
	s := &Signer{
		logger: logger,
		store:  store,
	}

	if tSettings.Ledger.ProvisionDemoIdentities {
		for _, name := range []string{"alice", "bob"} {
			if _, err := s.GetOrCreateIdentity(ctx, name); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// GetOrCreateIdentity ensures a key pair exists for name. It returns true
// when a new key pair was generated and stored. When two nodes race, the
// first write wins and both end up with the same key.
func (s *Signer) GetOrCreateIdentity(ctx context.Context, name string) (bool, error) {
	name = strings.ToLower(name)

	if _, err := s.store.GetKey(ctx, name); err == nil {
		return false, nil
	} else if !errors.Is(err, errors.ErrNotFound) {
		return false, err
	}

	key, err := generateKey()
	if err != nil {
		return false, err
	}

	created, err := s.store.PutKeyIfAbsent(ctx, recordFromKey(name, key))
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Infof("generated identity for %s", name)
	}

	return created, nil
}

// Sign signs the given cells with name's private key. The cells are
// canonicalized the same way Verify does it.
func (s *Signer) Sign(ctx context.Context, name string, values ...[]byte) ([]byte, error) {
	name = strings.ToLower(name)

	record, err := s.store.GetKey(ctx, name)
	if err != nil {
		return nil, err
	}

	key, err := keyFromRecord(record)
	if err != nil {
		return nil, err
	}

	digest := canonicalDigest(values)

	r, sig, err := dsa.Sign(rand.Reader, key, digest)
	if err != nil {
		return nil, errors.NewKeyError("failed to sign for %s", name, err)
	}

	return marshalSignature(r, sig)
}

// Verify checks signature over the given cells against name's public key.
// It never fails hard: any problem with the key, the signature encoding or
// the verification itself is logged and reported as not verified.
func (s *Signer) Verify(ctx context.Context, name string, signature []byte, values ...[]byte) bool {
	name = strings.ToLower(name)

	record, err := s.store.GetKey(ctx, name)
	if err != nil {
		s.logger.Warnf("signature check for %s: %v", name, err)
		return false
	}

	key, err := keyFromRecord(record)
	if err != nil {
		s.logger.Warnf("signature check for %s: %v", name, err)
		return false
	}

	parsed, err := unmarshalSignature(signature)
	if err != nil {
		s.logger.Warnf("signature check for %s: %v", name, err)
		return false
	}

	return dsa.Verify(&key.PublicKey, canonicalDigest(values), parsed.R, parsed.S)
}

// SignNext arms the signer to sign the next appended transaction with
// name's key. The trigger is one-shot.
func (s *Signer) SignNext(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.signNext = true
	s.signNextName = strings.ToLower(name)
}

// MaybeSign produces a signature for the given cells when the signer was
// armed with SignNext, and disarms it. It returns nil when not armed or
// when there is no source to sign for.
func (s *Signer) MaybeSign(ctx context.Context, source []byte, values ...[]byte) ([]byte, error) {
	s.mu.Lock()

	if !s.signNext {
		s.mu.Unlock()
		return nil, nil
	}

	s.signNext = false
	name := s.signNextName
	s.mu.Unlock()

	if source == nil {
		return nil, nil
	}

	return s.Sign(ctx, name, values...)
}

func canonicalDigest(values [][]byte) []byte {
	values = model.RemoveNilValues(values)
	model.SortValues(values)

	h := sha1.New()
	for _, value := range values {
		h.Write(value)
	}

	return h.Sum(nil)
}
