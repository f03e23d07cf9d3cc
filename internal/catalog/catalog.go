// Package catalog holds the static table of operation descriptors.
//
// The table is built once at package init. Every accessor returns deep
// copies so that no caller can mutate a registered descriptor.
package catalog

import (
	"sort"

	"sodiumbridge/internal/domain"
)

// Operation identifiers. The order is the dispatch table order.
const (
	SecretboxKeygen domain.OpID = iota
	SecretboxEasy
	SecretboxOpenEasy
	AEADChaCha20Poly1305IETFKeygen
	AEADChaCha20Poly1305IETFEncrypt
	AEADChaCha20Poly1305IETFDecrypt
	AEADXChaCha20Poly1305IETFKeygen
	AEADXChaCha20Poly1305IETFEncrypt
	AEADXChaCha20Poly1305IETFDecrypt
	SecretStreamKeygen
	SecretStreamInitPush
	SecretStreamPush
	SecretStreamInitPull
	SecretStreamPull
	BoxKeypair
	BoxSeedKeypair
	BoxEasy
	BoxOpenEasy
	BoxSeal
	BoxSealOpen
	KXKeypair
	KXSeedKeypair
	KXClientSessionKeys
	KXServerSessionKeys
	ScalarMult
	ScalarMultBase
	CoreEd25519Add
	CoreEd25519Sub
	CoreEd25519ScalarRandom
	CoreEd25519FromUniform
	ScalarMultEd25519
	ScalarMultEd25519NoClamp
	ScalarMultEd25519Base
	ScalarMultEd25519BaseNoClamp
	GenericHash
	GenericHashInit
	GenericHashUpdate
	GenericHashFinal
	HashSHA512
	OneTimeAuth
	OneTimeAuthVerify
	KDFKeygen
	KDFDeriveFromKey
	SignKeypair
	SignSeedKeypair
	Sign
	SignOpen
	SignDetached
	SignVerifyDetached
	SignEd25519SkToPk
	Pwhash
	PwhashScryptSalsa208SHA256
	Stream
	StreamXor
	StreamChaCha20IETFXor
	RandomBytesBuf
	Verify16
	Verify32
	Verify64
	Memcmp
	Pad
	Unpad

	// Count is the number of operations in the table.
	Count int = iota
)

var (
	table  [Count]domain.Descriptor
	byName = make(map[string]domain.OpID, Count)
)

func init() {
	for _, d := range descriptors() {
		if table[d.ID].Name != "" {
			panic("catalog: duplicate id for " + d.Name)
		}
		if _, dup := byName[d.Name]; dup {
			panic("catalog: duplicate name " + d.Name)
		}
		table[d.ID] = d
		byName[d.Name] = d.ID
	}
	for id := range table {
		if table[id].Name == "" {
			panic("catalog: missing descriptor")
		}
	}
}

// Lookup returns the descriptor registered under name.
func Lookup(name string) (domain.Descriptor, bool) {
	id, ok := byName[name]
	if !ok {
		return domain.Descriptor{}, false
	}
	return table[id].Clone(), true
}

// ByID returns the descriptor with the given id.
func ByID(id domain.OpID) (domain.Descriptor, bool) {
	if int(id) >= Count {
		return domain.Descriptor{}, false
	}
	return table[id].Clone(), true
}

// All returns every descriptor in id order.
func All() []domain.Descriptor {
	out := make([]domain.Descriptor, Count)
	for i := range table {
		out[i] = table[i].Clone()
	}
	return out
}

// Names returns the operation names sorted alphabetically.
func Names() []string {
	out := make([]string, 0, Count)
	for name := range byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
