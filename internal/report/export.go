package report

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/store"
	"github.com/akyairhashvil/worktime/internal/util"
	"golang.org/x/crypto/argon2"
)

// ErrWrongPassphrase is returned when an export cannot be opened.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted export")

const exportVersion = 1

// argon2id parameters for the export key.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	keyLen     = 32
	saltLen    = 16
)

type envelope struct {
	Version   int    `json:"version"`
	Encrypted bool   `json:"encrypted"`
	Salt      string `json:"salt,omitempty"`
	Nonce     string `json:"nonce,omitempty"`
	Data      string `json:"data"`
}

func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, kdfTime, kdfMemory, kdfThreads, keyLen)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// ExportEncrypted writes entries as a sealed JSON envelope. The payload is the
// structured JSON timer list.
func ExportEncrypted(w io.Writer, entries []models.Entry, passphrase string) error {
	if err := util.ValidatePassphrase(passphrase); err != nil {
		return err
	}
	payload, err := store.EncodeJSON(entries)
	if err != nil {
		return fmt.Errorf("encode timers: %w", err)
	}
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	env := envelope{
		Version:   exportVersion,
		Encrypted: true,
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Nonce:     base64.StdEncoding.EncodeToString(nonce),
		Data:      base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, payload, nil)),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ImportEncrypted opens an envelope written by ExportEncrypted. Unencrypted
// envelopes are accepted and the passphrase is ignored for them.
func ImportEncrypted(r io.Reader, passphrase string) (store.Result, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return store.Result{}, fmt.Errorf("read export: %w", err)
	}
	if env.Version > exportVersion {
		return store.Result{}, fmt.Errorf("export version %d is newer than supported %d", env.Version, exportVersion)
	}
	data, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return store.Result{}, fmt.Errorf("read export data: %w", err)
	}
	if env.Encrypted {
		data, err = open(env, data, passphrase)
		if err != nil {
			return store.Result{}, err
		}
	}
	return store.DecodeJSON(data)
}

func open(env envelope, ciphertext []byte, passphrase string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("read export salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("read export nonce: %w", err)
	}
	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plain, nil
}
