// Package keystore provides an in-memory storage for auth keys.
package keystore

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

const maxPEMSize = 1024 * 1024 //1MB

const pemType = "PRIVATE KEY"

type KeyStore struct {
	mu        sync.RWMutex
	store     map[string]*rsa.PrivateKey
	activeKey string
}

func New() *KeyStore {
	return &KeyStore{
		store: make(map[string]*rsa.PrivateKey),
	}
}

// Add registers a private key under kid.
func (ks *KeyStore) Add(kid string, key *rsa.PrivateKey) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.store[kid] = key
}

// LoadFromFileSystem loads every "<kid>.pem" file found in fsys and returns the
// number of keys held afterwards.
func (ks *KeyStore) LoadFromFileSystem(fsys fs.FS) (int, error) {
	walker := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}

		if d.IsDir() {
			// Kubernetes mounts secrets through "..data" symlinked dirs, the
			// walker would see every key twice.
			if path != "." && strings.HasPrefix(d.Name(), "..") {
				return fs.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".pem" {
			return nil
		}

		file, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("opening file %s: %w", path, err)
		}

		defer file.Close()

		pemBytes, err := io.ReadAll(io.LimitReader(file, maxPEMSize))
		if err != nil {
			return fmt.Errorf("readAll: %w", err)
		}

		key, err := ParsePrivateKey(pemBytes)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		//filename is "<uuid>.pem" and the uuid is the kid.
		kid := strings.TrimSuffix(filepath.Base(path), ".pem")
		ks.Add(kid, key)
		return nil
	}

	if err := fs.WalkDir(fsys, ".", walker); err != nil {
		return 0, fmt.Errorf("walkDir: %w", err)
	}

	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.store), nil
}

func (ks *KeyStore) PrivateKey(kid string) (*rsa.PrivateKey, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	k, ok := ks.store[kid]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return k, nil
}

func (ks *KeyStore) PublicKey(kid string) (*rsa.PublicKey, error) {
	k, err := ks.PrivateKey(kid)
	if err != nil {
		return nil, err
	}

	return &k.PublicKey, nil
}

func (ks *KeyStore) SetActiveKey(kid string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if _, ok := ks.store[kid]; !ok {
		return fmt.Errorf("key[%s]: %w", kid, ErrKeyNotFound)
	}

	ks.activeKey = kid
	return nil
}

func (ks *KeyStore) ActiveKid() string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.activeKey
}

// ==============================================================================

// ParsePrivateKey decodes a "PRIVATE KEY" pem block in PKCS1 or PKCS8 form.
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil || block.Type != pemType {
		return nil, errors.New("invalid pem bytes: expected a PRIVATE KEY block")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key as PKCS1 or PKCS8: %w", err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("key is not a valid rsa private key")
	}

	return key, nil
}

// EncodePrivateKey returns key as a PKCS8 pem block that ParsePrivateKey accepts.
func EncodePrivateKey(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshalPKCS8PrivateKey: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der}), nil
}
