package bridge

import (
	"context"

	"sodiumbridge/internal/domain"
)

// GenericHashBatch hashes the concatenation of parts, optionally keyed, into
// an outlen-byte digest. It runs crypto_generichash_init, one update per part
// and crypto_generichash_final, returning the first failure. Parts and key
// are managed values in the bridge's codec.
func (b *Bridge) GenericHashBatch(ctx context.Context, outlen any, parts []any, key any) domain.Result {
	res := b.Call(ctx, "crypto_generichash_init", key, outlen)
	for _, part := range parts {
		if !res.OK() {
			return res
		}
		res = b.Call(ctx, "crypto_generichash_update", res.Value(), part)
	}
	if !res.OK() {
		return res
	}
	return b.Call(ctx, "crypto_generichash_final", res.Value(), outlen)
}
