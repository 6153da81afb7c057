package cardcrypto

import (
	"crypto/aes"
	"encoding/base64"
	"fmt"
)

const maskPrefix = "**** **** **** "

// CodecError wraps any failure of the card number codec.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("cardcrypto: %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Codec encrypts, decrypts and masks raw card numbers.
// Encryption is deterministic: the ciphertext doubles as the uniqueness key
// for the cards table, so the same input must always produce the same output.
type Codec struct {
	key []byte
}

func New(key []byte) (*Codec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, &CodecError{Op: "init", Err: fmt.Errorf("key must be 16, 24 or 32 bytes, got %d", len(key))}
	}
	return &Codec{key: key}, nil
}

func (c *Codec) Encrypt(rawNumber string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", &CodecError{Op: "encrypt", Err: err}
	}

	plaintext := pad([]byte(rawNumber), aes.BlockSize)
	ciphertext := make([]byte, len(plaintext))
	for i := 0; i < len(plaintext); i += aes.BlockSize {
		block.Encrypt(ciphertext[i:i+aes.BlockSize], plaintext[i:i+aes.BlockSize])
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (c *Codec) Decrypt(encrypted string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", &CodecError{Op: "decrypt", Err: err}
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", &CodecError{Op: "decrypt", Err: fmt.Errorf("invalid ciphertext length: %d", len(ciphertext))}
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", &CodecError{Op: "decrypt", Err: err}
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		block.Decrypt(plaintext[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}

	plaintext, err = unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", &CodecError{Op: "decrypt", Err: err}
	}
	return string(plaintext), nil
}

// Mask replaces everything but the last four characters with a fixed
// placeholder. Inputs shorter than four characters pass through unchanged.
func (c *Codec) Mask(rawNumber string) string {
	if len(rawNumber) < 4 {
		return rawNumber
	}
	return maskPrefix + rawNumber[len(rawNumber)-4:]
}

func pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, fmt.Errorf("invalid padding value: %d", padding)
	}
	for i := len(data) - padding; i < len(data); i++ {
		if int(data[i]) != padding {
			return nil, fmt.Errorf("invalid padding byte at position %d", i)
		}
	}
	return data[:len(data)-padding], nil
}
