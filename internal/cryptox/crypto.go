// Package cryptox implements the client-side cryptography of HealthPod:
// argon2id key derivation and AES-256-GCM payload encryption. The pod server
// only ever stores the sealed envelopes produced here.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/healthpod/healthpod/internal/common"
	"golang.org/x/crypto/argon2"
)

// MakeVerifier returns the login verifier for a master key. The server stores
// the verifier; the key itself never leaves the client.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey derives a 32-byte key from a password and salt using
// argon2id (t=1, m=64MiB, p=4).
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// DeriveDataKey derives the per-user data-encryption key from the secret key
// the user is prompted for. A fixed application salt keeps the derivation
// stable across sessions without storing anything locally.
func DeriveDataKey(secretKey []byte) []byte {
	return argon2.IDKey(secretKey, []byte("healthpod.data.v1"), 1, 64*1024, 4, 32)
}

// Envelope is the sealed form a resource payload takes on the pod. Both
// fields are base64 in the stored JSON.
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// Seal encrypts plaintext with AES-256-GCM under key and returns the JSON
// envelope bytes written to the pod. A fresh random nonce is generated per
// call.
func Seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	env := Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
	}
	return json.Marshal(env)
}

// Open reverses Seal: it parses the JSON envelope and decrypts the payload.
// A wrong key or a tampered envelope yields an error from GCM.
func Open(envelope, key []byte) ([]byte, error) {
	var env Envelope
	if err := json.Unmarshal(envelope, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
