package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name entries are stored under in the OS keychain
const KeyringService = "portald-cli"

// KeyringStore persists the session in the OS keychain/credential manager.
// Entries are namespaced by account so several API hosts can coexist.
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore creates a keychain-backed store for the given account
func NewKeyringStore(account string) *KeyringStore {
	return &KeyringStore{service: KeyringService, account: account}
}

func (k *KeyringStore) itemKey(key string) string {
	return fmt.Sprintf("%s-%s", key, k.account)
}

func (k *KeyringStore) Get(key string) (string, bool, error) {
	value, err := keyring.Get(k.service, k.itemKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, true, nil
}

func (k *KeyringStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := keyring.Set(k.service, k.itemKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (k *KeyringStore) Clear() error {
	for _, key := range Keys {
		if err := keyring.Delete(k.service, k.itemKey(key)); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				continue // Already deleted
			}
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
