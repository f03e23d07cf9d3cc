// Package native is the primitive library the bridge drives.
//
// It mirrors a C API: callers allocate outputs of the exact size, inputs are
// assumed to be length-checked already, and every function returns an
// integer status (0 on success, negative on failure). Nothing here retains a
// reference to an argument after returning.
//
// # Status codes
//
//   - OK (0)
//   - Fail (-1): verification failed or the result is unusable
//   - ErrInvalidPoint (-2): a public point is malformed or of small order
//   - ErrRandom (-3): the system random source failed
//   - ErrParameter (-4): a cost or size parameter is unsupported
//
// # Interoperability
//
// Outputs match libsodium byte for byte except crypto_kdf_derive_from_key,
// which keys BLAKE2b with the master key over LE64(id)||ctx because
// golang.org/x/crypto/blake2b does not expose the salt and personalization
// parameters libsodium uses.
package native
