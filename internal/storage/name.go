package storage

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

// PrefixSize is the length of a storage prefix.
const PrefixSize = 16

// Name identifies a storage by its pallet and its own name.
type Name struct {
	Pallet  string
	Storage string
}

// NewName creates a Name. Both parts are NFC-normalized, so canonically
// equivalent spellings name the same storage.
func NewName(pallet, storage string) Name {
	return Name{Pallet: norm.NFC.String(pallet), Storage: norm.NFC.String(storage)}
}

func (n Name) String() string {
	return n.Pallet + "/" + n.Storage
}

// Prefix returns the key prefix shared by every entry of the storage.
func (n Name) Prefix() []byte {
	prefix := make([]byte, 0, PrefixSize)
	prefix = binary.BigEndian.AppendUint64(prefix, xxhash.Sum64String(norm.NFC.String(n.Pallet)))
	prefix = binary.BigEndian.AppendUint64(prefix, xxhash.Sum64String(norm.NFC.String(n.Storage)))
	return prefix
}
