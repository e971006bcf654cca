package primitives

import (
	"encoding/hex"
	"fmt"
)

// PublicKeySize is the length of an sr25519 public key.
const PublicKeySize = 32

// PublicKey is a 32-byte sr25519 public key.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes a hex string, with or without a 0x prefix.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return pk, fmt.Errorf("decode public key: %w", err)
	}
	if len(b) != PublicKeySize {
		return pk, fmt.Errorf("public key must be %d bytes, got %d", PublicKeySize, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// IsZero reports whether every byte of the key is zero.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

func (pk PublicKey) String() string {
	return "0x" + hex.EncodeToString(pk[:])
}

// MarshalText implements encoding.TextMarshaler so keys encode as hex strings.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}
