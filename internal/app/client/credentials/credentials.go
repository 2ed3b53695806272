// Package credentials keeps the API token encrypted at rest. The key file
// holds a random seed; the actual AES key is derived from it with argon2id
// so a copied token file is useless without the key file.
package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	seedLength = 32
	saltLength = 16

	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32

	filePermissions = 0600
)

var ErrNoToken = errors.New("no stored token")

type keyFile struct {
	Version int    `json:"version"`
	Seed    []byte `json:"seed"`
	Salt    []byte `json:"salt"`
}

type tokenFile struct {
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

type Store struct {
	keyPath   string
	tokenPath string
	mu        sync.Mutex
}

func NewStore(keyPath, tokenPath string) *Store {
	return &Store{keyPath: keyPath, tokenPath: tokenPath}
}

// SaveToken encrypts and persists the token, creating the key file on first
// use.
func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.loadOrCreateKey()
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	tf := tokenFile{
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, []byte(token), nil),
	}
	data, err := json.Marshal(tf)
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(s.tokenPath, data, filePermissions); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Token decrypts and returns the stored token.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token file: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("decode token file: %w", err)
	}

	key, err := s.loadKey()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, tf.Nonce, tf.Ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt token: %w", err)
	}
	return string(plaintext), nil
}

// Clear removes the stored token. Missing files are not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func (s *Store) loadOrCreateKey() ([]byte, error) {
	key, err := s.loadKey()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	kf := keyFile{
		Version: 1,
		Seed:    make([]byte, seedLength),
		Salt:    make([]byte, saltLength),
	}
	if _, err := io.ReadFull(rand.Reader, kf.Seed); err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, kf.Salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	data, err := json.Marshal(kf)
	if err != nil {
		return nil, fmt.Errorf("encode key file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.keyPath), 0700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(s.keyPath, data, filePermissions); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}

	return deriveKey(kf), nil
}

func (s *Store) loadKey() ([]byte, error) {
	data, err := os.ReadFile(s.keyPath)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("decode key file: %w", err)
	}
	if len(kf.Seed) != seedLength || len(kf.Salt) != saltLength {
		return nil, fmt.Errorf("malformed key file %s", s.keyPath)
	}
	return deriveKey(kf), nil
}

func deriveKey(kf keyFile) []byte {
	return argon2.IDKey(kf.Seed, kf.Salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}
