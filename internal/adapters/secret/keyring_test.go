package secret_test

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/PabloGalante/helper-kust/internal/adapters/secret"
)

func TestResolveAPIKey(t *testing.T) {
	keyring.MockInit()
	provider := secret.NewKeyringProvider()

	if _, err := secret.ResolveAPIKey("", provider); !errors.Is(err, secret.ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}

	got, err := secret.ResolveAPIKey("from-env", provider)
	if err != nil || got != "from-env" {
		t.Fatalf("expected configured key, got %q, %v", got, err)
	}

	if err := provider.Set(secret.APIKeyName, "from-keyring"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err = secret.ResolveAPIKey("", provider)
	if err != nil || got != "from-keyring" {
		t.Fatalf("expected keyring key, got %q, %v", got, err)
	}

	if err := provider.Delete(secret.APIKeyName); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := provider.Get(secret.APIKeyName); !errors.Is(err, secret.ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound after delete, got %v", err)
	}
}
