package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"

	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/repository"
)

const (
	keyPrefixRandomLength = 8
	keySecretLength       = 32
	keyAlphabet           = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type APIKeyStore interface {
	Insert(ctx context.Context, key *model.OrganisationAPIKey) error
	FindByPrefix(ctx context.Context, prefix string) (*model.OrganisationAPIKey, error)
	ListByOrganisation(ctx context.Context, orgID string) ([]model.OrganisationAPIKey, error)
	ExpireByPrefix(ctx context.Context, orgID, prefix string, at time.Time) error
}

// Principal is the caller identified by a valid API key.
type Principal struct {
	OrganisationID string
	KeyPrefix      string
	IsTest         bool
}

type APIKeyService struct {
	store  APIKeyStore
	params *argon2id.Params
	now    func() time.Time
}

func NewAPIKeyService(store APIKeyStore) *APIKeyService {
	return &APIKeyService{store: store, params: argon2id.DefaultParams, now: time.Now}
}

// Create issues a new key for the organisation. The plaintext key is returned
// once and only its hash is stored.
func (s *APIKeyService) Create(ctx context.Context, orgID, name string, test bool) (*model.OrganisationAPIKey, string, error) {
	scheme := model.ProdKeyPrefix
	if test {
		scheme = model.TestKeyPrefix
	}

	random, err := randomString(keyPrefixRandomLength)
	if err != nil {
		return nil, "", fmt.Errorf("generate key prefix: %w", err)
	}
	secret, err := randomString(keySecretLength)
	if err != nil {
		return nil, "", fmt.Errorf("generate key secret: %w", err)
	}

	prefix := scheme + random
	raw := prefix + "." + secret

	hash, err := argon2id.CreateHash(raw, s.params)
	if err != nil {
		return nil, "", fmt.Errorf("hash api key: %w", err)
	}

	key := &model.OrganisationAPIKey{
		OrganisationID: orgID,
		Name:           name,
		Prefix:         prefix,
		HashedKey:      hash,
	}
	if err := s.store.Insert(ctx, key); err != nil {
		return nil, "", err
	}

	log.Info().Str("organisation_id", orgID).Str("prefix", prefix).Bool("test", test).Msg("api key created")
	return key, raw, nil
}

// Validate resolves a raw key to its organisation. Every rejection is an
// *AuthenticationError.
func (s *APIKeyService) Validate(ctx context.Context, raw string) (*Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, authFailed("api key not provided")
	}

	prefix, _, ok := strings.Cut(raw, ".")
	if !ok || prefix == "" {
		return nil, authFailed("api key does not exist or has been revoked")
	}

	key, err := s.store.FindByPrefix(ctx, prefix)
	if errors.Is(err, repository.ErrAPIKeyNotFound) {
		log.Warn().Str("prefix", prefix).Msg("unknown api key prefix")
		return nil, authFailed("api key does not exist or has been revoked")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup api key: %w", err)
	}

	match, err := argon2id.ComparePasswordAndHash(raw, key.HashedKey)
	if err != nil {
		return nil, fmt.Errorf("compare api key: %w", err)
	}
	if !match {
		log.Warn().Str("prefix", prefix).Msg("api key secret mismatch")
		return nil, authFailed("api key does not exist or has been revoked")
	}
	if key.Revoked {
		log.Warn().Str("prefix", prefix).Msg("revoked api key used")
		return nil, authFailed("api key does not exist or has been revoked")
	}
	if key.HasExpired(s.now()) {
		log.Warn().Str("prefix", prefix).Msg("expired api key used")
		return nil, authFailed("api key has expired")
	}

	return &Principal{
		OrganisationID: key.OrganisationID,
		KeyPrefix:      key.Prefix,
		IsTest:         key.IsTest(),
	}, nil
}

// Revoke expires the key immediately. Keys belonging to other organisations
// are reported as not found.
func (s *APIKeyService) Revoke(ctx context.Context, orgID, prefix string) error {
	err := s.store.ExpireByPrefix(ctx, orgID, prefix, s.now())
	if errors.Is(err, repository.ErrAPIKeyNotFound) {
		return fmt.Errorf("api key %s: %w", prefix, ErrNotFound)
	}
	if err != nil {
		return err
	}
	log.Info().Str("organisation_id", orgID).Str("prefix", prefix).Msg("api key revoked")
	return nil
}

func (s *APIKeyService) List(ctx context.Context, orgID string) ([]model.OrganisationAPIKey, error) {
	return s.store.ListByOrganisation(ctx, orgID)
}

// ExtractKey returns the second whitespace separated token of an
// Authorization header value, or "" when there is none.
func ExtractKey(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// randomString draws n characters from keyAlphabet. Bytes at or above the
// largest multiple of the alphabet size are discarded so every character is
// equally likely.
func randomString(n int) (string, error) {
	limit := 256 - 256%len(keyAlphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, keyAlphabet[int(b)%len(keyAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
