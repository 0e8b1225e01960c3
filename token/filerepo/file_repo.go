// Package filerepo stores tokens in a single file, optionally encrypted with
// a passphrase.
package filerepo

import (
	"bytes"
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tracktor/zoho-crm/internal/errors"
	"github.com/Tracktor/zoho-crm/token"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

var _ token.Repo = (*Repo)(nil)

// magic prefixes encrypted files. Plain files are bare JSON objects.
var magic = []byte("ZCT1")

const saltSize = 16

// scrypt parameters, see golang.org/x/crypto/scrypt.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Repo keeps every token in one file, keyed by name. With a passphrase the
// file is sealed with ChaCha20-Poly1305 under a key derived by scrypt; without
// one it is written as JSON. The file is only readable by its owner.
type Repo struct {
	path       string
	passphrase []byte
	mu         sync.Mutex
}

func New(path, passphrase string) *Repo {
	return &Repo{path: path, passphrase: []byte(passphrase)}
}

func (r *Repo) Path() string {
	return r.path
}

func (r *Repo) Get(_ context.Context, key string) (*token.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, err := r.read()
	if err != nil {
		return nil, err
	}
	data, ok := tokens[key]
	if !ok {
		return nil, errors.ErrTokenNotFound
	}
	return token.UnmarshalRecord(data)
}

func (r *Repo) Upsert(_ context.Context, key string, t *token.Token) error {
	if key == "" {
		return errors.ErrInvalidKey
	}
	data, err := token.MarshalRecord(t)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, err := r.read()
	if err != nil {
		return err
	}
	tokens[key] = data
	return r.write(tokens)
}

func (r *Repo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := tokens[key]; !ok {
		return errors.ErrTokenNotFound
	}
	delete(tokens, key)
	return r.write(tokens)
}

func (r *Repo) read() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read token file")
	}

	if bytes.HasPrefix(raw, magic) {
		if raw, err = r.open(raw); err != nil {
			return nil, err
		}
	} else if len(r.passphrase) > 0 && len(raw) > 0 {
		return nil, errors.Wrapf(errors.ErrCorruptTokenFile, "expected an encrypted token file")
	}

	tokens := make(map[string]json.RawMessage)
	if len(raw) == 0 {
		return tokens, nil
	}
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, errors.Wrapf(errors.ErrCorruptTokenFile, "failed to decode token file")
	}
	return tokens, nil
}

func (r *Repo) write(tokens map[string]json.RawMessage) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	if len(r.passphrase) > 0 {
		if data, err = r.seal(data); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrapf(err, "failed to create token directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".tokens-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary token file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write token file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to set token file mode")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to write token file")
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *Repo) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	aead, err := r.newAEAD(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, magic), nil
}

func (r *Repo) open(raw []byte) ([]byte, error) {
	if len(r.passphrase) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidPassphrase, "token file is encrypted")
	}
	raw = raw[len(magic):]
	if len(raw) < saltSize+chacha20poly1305.NonceSize {
		return nil, errors.ErrCorruptTokenFile
	}
	salt, raw := raw[:saltSize], raw[saltSize:]
	aead, err := r.newAEAD(salt)
	if err != nil {
		return nil, err
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, magic)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidPassphrase, "failed to decrypt token file")
	}
	return plaintext, nil
}

func (r *Repo) newAEAD(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(r.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}
	return aead, nil
}
