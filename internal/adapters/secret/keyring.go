package secret

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keychainService = "helperkust"

	// APIKeyName is the keyring entry holding the generation API key.
	APIKeyName = "gemini_api_key"
)

var ErrSecretNotFound = errors.New("secret not found")

type KeyringProvider struct{}

func NewKeyringProvider() *KeyringProvider {
	return &KeyringProvider{}
}

func (k *KeyringProvider) Get(key string) (string, error) {
	secret, err := keyring.Get(keychainService, key)
	if err != nil {
		return "", toError(key, err)
	}
	return secret, nil
}

func (k *KeyringProvider) Set(key string, value string) error {
	if err := keyring.Set(keychainService, key, value); err != nil {
		return toError(key, err)
	}
	return nil
}

func (k *KeyringProvider) Delete(key string) error {
	if err := keyring.Delete(keychainService, key); err != nil {
		return toError(key, err)
	}
	return nil
}

func toError(key string, err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}
	return fmt.Errorf("keyring %s: %w", key, err)
}

// ResolveAPIKey prefers an explicitly configured key and falls back to the
// keyring. It returns ErrSecretNotFound when neither has one.
func ResolveAPIKey(configured string, provider *KeyringProvider) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if provider == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, APIKeyName)
	}
	key, err := provider.Get(APIKeyName)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, APIKeyName)
	}
	return key, nil
}
