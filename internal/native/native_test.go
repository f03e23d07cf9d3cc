package native_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sodiumbridge/internal/native"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex: %v", err)
	}
	return b
}

func TestInitIdempotent(t *testing.T) {
	first := native.Init()
	require.Contains(t, []int{0, 1}, first)
	assert.Equal(t, 1, native.Init())
	assert.Equal(t, 1, native.Init())
}

func TestHashVectors(t *testing.T) {
	out := make([]byte, 64)
	require.Equal(t, native.OK, native.HashSHA512(out, nil))
	assert.Equal(t, "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce"+
		"47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e", hex.EncodeToString(out))

	require.Equal(t, native.OK, native.GenericHash(out, nil, nil))
	assert.Equal(t, "786a02f742015903c6c6fd852552d272912f4740e15847618a86e217f71f5419"+
		"d25e1031afee585313896444934eb04b903a685b1448b755d56f701afe9be2ce", hex.EncodeToString(out))

	out32 := make([]byte, 32)
	require.Equal(t, native.OK, native.GenericHash(out32, []byte{}, nil))
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", hex.EncodeToString(out32))
}

func TestGenericHashKeyed(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	a := make([]byte, 32)
	b := make([]byte, 32)
	require.Equal(t, native.OK, native.GenericHash(a, []byte("m"), key))
	require.Equal(t, native.OK, native.GenericHash(b, []byte("m"), nil))
	assert.NotEqual(t, a, b)
}

func TestOneTimeAuthVector(t *testing.T) {
	key := unhex(t, "85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b")
	msg := []byte("Cryptographic Forum Research Group")
	tag := make([]byte, 16)
	require.Equal(t, native.OK, native.OneTimeAuth(tag, msg, key))
	assert.Equal(t, "a8061dc1305136c6c22b8baf0c0127a9", hex.EncodeToString(tag))

	assert.Equal(t, native.OK, native.OneTimeAuthVerify(tag, msg, key))
	tag[0] ^= 1
	assert.Equal(t, native.Fail, native.OneTimeAuthVerify(tag, msg, key))
}

func TestScalarMultVector(t *testing.T) {
	aliceSK := unhex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	bobSK := unhex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb")

	alicePK := make([]byte, 32)
	bobPK := make([]byte, 32)
	require.Equal(t, native.OK, native.ScalarMultBase(alicePK, aliceSK))
	require.Equal(t, native.OK, native.ScalarMultBase(bobPK, bobSK))
	assert.Equal(t, "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a", hex.EncodeToString(alicePK))
	assert.Equal(t, "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f", hex.EncodeToString(bobPK))

	shared := make([]byte, 32)
	require.Equal(t, native.OK, native.ScalarMult(shared, aliceSK, bobPK))
	assert.Equal(t, "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742", hex.EncodeToString(shared))

	assert.Equal(t, native.ErrInvalidPoint, native.ScalarMult(shared, aliceSK, make([]byte, 32)))
}

func TestSignVector(t *testing.T) {
	seed := unhex(t, "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	pk := make([]byte, 32)
	sk := make([]byte, 64)
	require.Equal(t, native.OK, native.SignSeedKeypair(pk, sk, seed))
	assert.Equal(t, "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a", hex.EncodeToString(pk))

	sig := make([]byte, 64)
	require.Equal(t, native.OK, native.SignDetached(sig, nil, sk))
	assert.Equal(t, "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e06522490155"+
		"5fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b", hex.EncodeToString(sig))
	assert.Equal(t, native.OK, native.SignVerifyDetached(sig, nil, pk))

	derived := make([]byte, 32)
	require.Equal(t, native.OK, native.SignEd25519SkToPk(derived, sk))
	assert.Equal(t, pk, derived)

	m := []byte("attached")
	sm := make([]byte, 64+len(m))
	require.Equal(t, native.OK, native.Sign(sm, m, sk))
	opened := make([]byte, len(m))
	require.Equal(t, native.OK, native.SignOpen(opened, sm, pk))
	assert.Equal(t, m, opened)

	sm[70] ^= 1
	assert.Equal(t, native.Fail, native.SignOpen(opened, sm, pk))
}

func TestSecretboxRoundTrip(t *testing.T) {
	k := make([]byte, 32)
	n := make([]byte, 24)
	require.Equal(t, native.OK, native.RandomBytes(k))
	require.Equal(t, native.OK, native.RandomBytes(n))

	m := []byte("attack at dawn")
	c := make([]byte, len(m)+16)
	require.Equal(t, native.OK, native.SecretboxEasy(c, m, n, k))

	out := make([]byte, len(m))
	require.Equal(t, native.OK, native.SecretboxOpenEasy(out, c, n, k))
	assert.Equal(t, m, out)

	c[len(c)-1] ^= 0xff
	assert.Equal(t, native.Fail, native.SecretboxOpenEasy(out, c, n, k))
}

func TestAEADRoundTrip(t *testing.T) {
	k := bytes.Repeat([]byte{1}, 32)
	for _, nonceLen := range []int{12, 24} {
		npub := bytes.Repeat([]byte{2}, nonceLen)
		m := []byte("payload")
		ad := []byte("header")

		c := make([]byte, len(m)+16)
		require.Equal(t, native.OK, native.AEADEncrypt(c, m, ad, npub, k))

		out := make([]byte, len(m))
		require.Equal(t, native.OK, native.AEADDecrypt(out, c, ad, npub, k))
		assert.Equal(t, m, out)

		assert.Equal(t, native.Fail, native.AEADDecrypt(out, c, []byte("other"), npub, k))
	}
}

func TestBox(t *testing.T) {
	apk, ask := make([]byte, 32), make([]byte, 32)
	bpk, bsk := make([]byte, 32), make([]byte, 32)
	require.Equal(t, native.OK, native.BoxKeypair(apk, ask))
	require.Equal(t, native.OK, native.BoxKeypair(bpk, bsk))

	n := make([]byte, 24)
	m := []byte("hello, world!")
	c := make([]byte, len(m)+16)
	require.Equal(t, native.OK, native.BoxEasy(c, m, n, bpk, ask))

	out := make([]byte, len(m))
	require.Equal(t, native.OK, native.BoxOpenEasy(out, c, n, apk, bsk))
	assert.Equal(t, m, out)

	assert.Equal(t, native.ErrInvalidPoint, native.BoxEasy(c, m, n, make([]byte, 32), ask))

	sealed := make([]byte, len(m)+48)
	require.Equal(t, native.OK, native.BoxSeal(sealed, m, bpk))
	require.Equal(t, native.OK, native.BoxSealOpen(out, sealed, bpk, bsk))
	assert.Equal(t, m, out)
	assert.Equal(t, native.Fail, native.BoxSealOpen(out, sealed, apk, ask))
}

func TestBoxSeedKeypairDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{9}, 32)
	pk1, sk1 := make([]byte, 32), make([]byte, 32)
	pk2, sk2 := make([]byte, 32), make([]byte, 32)
	require.Equal(t, native.OK, native.BoxSeedKeypair(pk1, sk1, seed))
	require.Equal(t, native.OK, native.BoxSeedKeypair(pk2, sk2, seed))
	assert.Equal(t, pk1, pk2)
	assert.Equal(t, sk1, sk2)

	check := make([]byte, 32)
	require.Equal(t, native.OK, native.ScalarMultBase(check, sk1))
	assert.Equal(t, pk1, check)
}

func TestKXSessionKeysAgree(t *testing.T) {
	cpk, csk := make([]byte, 32), make([]byte, 32)
	spk, ssk := make([]byte, 32), make([]byte, 32)
	require.Equal(t, native.OK, native.KXKeypair(cpk, csk))
	require.Equal(t, native.OK, native.KXSeedKeypair(spk, ssk, bytes.Repeat([]byte{3}, 32)))

	crx, ctx := make([]byte, 32), make([]byte, 32)
	srx, stx := make([]byte, 32), make([]byte, 32)
	require.Equal(t, native.OK, native.KXClientSessionKeys(crx, ctx, cpk, csk, spk))
	require.Equal(t, native.OK, native.KXServerSessionKeys(srx, stx, spk, ssk, cpk))

	assert.Equal(t, crx, stx)
	assert.Equal(t, ctx, srx)
	assert.NotEqual(t, crx, ctx)
}

func TestEd25519Core(t *testing.T) {
	base := unhex(t, "5866666666666666666666666666666666666666666666666666666666666666")
	identity := make([]byte, 32)
	identity[0] = 1

	one := make([]byte, 32)
	one[0] = 1
	two := make([]byte, 32)
	two[0] = 2

	b1 := make([]byte, 32)
	require.Equal(t, native.OK, native.ScalarMultEd25519Base(b1, one, false))
	assert.Equal(t, base, b1)

	sum := make([]byte, 32)
	require.Equal(t, native.OK, native.CoreEd25519Add(sum, base, base))
	b2 := make([]byte, 32)
	require.Equal(t, native.OK, native.ScalarMultEd25519Base(b2, two, false))
	assert.Equal(t, b2, sum)

	diff := make([]byte, 32)
	require.Equal(t, native.OK, native.CoreEd25519Sub(diff, sum, base))
	assert.Equal(t, base, diff)

	viaPoint := make([]byte, 32)
	require.Equal(t, native.OK, native.ScalarMultEd25519(viaPoint, two, base, false))
	assert.Equal(t, b2, viaPoint)

	assert.Equal(t, native.ErrInvalidPoint, native.ScalarMultEd25519(viaPoint, two, identity, false))
	assert.Equal(t, native.Fail, native.ScalarMultEd25519Base(viaPoint, make([]byte, 32), false))

	r := make([]byte, 32)
	require.Equal(t, native.OK, native.CoreEd25519ScalarRandom(r))
	assert.NotEqual(t, make([]byte, 32), r)
	assert.Zero(t, r[31]&0xf0, "scalar must be reduced mod L")
}

func TestKDF(t *testing.T) {
	key := bytes.Repeat([]byte{5}, 32)
	ctx := []byte("Examples")
	a := make([]byte, 32)
	b := make([]byte, 32)
	require.Equal(t, native.OK, native.KDFDeriveFromKey(a, 1, ctx, key))
	require.Equal(t, native.OK, native.KDFDeriveFromKey(b, 2, ctx, key))
	assert.NotEqual(t, a, b)

	again := make([]byte, 32)
	require.Equal(t, native.OK, native.KDFDeriveFromKey(again, 1, ctx, key))
	assert.Equal(t, a, again)
}

func TestKDFMatchesLibsodium(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	sub := make([]byte, 64)
	require.Equal(t, native.OK, native.KDFDeriveFromKey(sub, 0, []byte("KDF test"), key))
	assert.Equal(t, "a0c724404728c8bb95e5433eb6a9716171144d61efb23e74b873fcbeda51d807"+
		"1b5d70aae12066dfc94ce943f145aa176c055040c3dd73b0a15e36254d450614", hex.EncodeToString(sub))

	assert.Equal(t, native.ErrParameter, native.KDFDeriveFromKey(sub, 0, []byte("KDF test"), make([]byte, 65)))
}

func TestPwhash(t *testing.T) {
	salt := bytes.Repeat([]byte{4}, 16)
	out := make([]byte, 16)
	require.Equal(t, native.OK, native.Pwhash(out, []byte("pw"), salt, 1, 8192, native.AlgArgon2id13))
	again := make([]byte, 16)
	require.Equal(t, native.OK, native.Pwhash(again, []byte("pw"), salt, 1, 8192, native.AlgArgon2id13))
	assert.Equal(t, out, again)

	assert.Equal(t, native.ErrParameter, native.Pwhash(out, []byte("pw"), salt, 2, 8192, native.AlgArgon2i13))
	assert.Equal(t, native.OK, native.Pwhash(out, []byte("pw"), salt, 3, 8192, native.AlgArgon2i13))
	assert.Equal(t, native.ErrParameter, native.Pwhash(out, []byte("pw"), salt, 3, 8192, 9))
}

func TestScryptParams(t *testing.T) {
	tests := []struct {
		ops, mem uint64
		nLog2    uint
		r, p     int
	}{
		{32768, 16 << 20, 10, 8, 1},
		{524288, 16 << 20, 14, 8, 1},
		{1, 16 << 20, 10, 8, 1},
	}
	for _, tt := range tests {
		n, r, p := native.ScryptParams(tt.ops, tt.mem)
		assert.Equal(t, tt.nLog2, n, "ops=%d mem=%d", tt.ops, tt.mem)
		assert.Equal(t, tt.r, r)
		assert.Equal(t, tt.p, p)
	}

	out := make([]byte, 32)
	salt := bytes.Repeat([]byte{1}, 32)
	require.Equal(t, native.OK, native.PwhashScrypt(out, []byte("pw"), salt, 32768, 16<<20))
	assert.NotEqual(t, make([]byte, 32), out)
}

func TestStream(t *testing.T) {
	k := bytes.Repeat([]byte{1}, 32)
	n := bytes.Repeat([]byte{2}, 24)
	ks := make([]byte, 40)
	require.Equal(t, native.OK, native.Stream(ks, n, k))

	m := bytes.Repeat([]byte{0xaa}, 40)
	c := make([]byte, 40)
	require.Equal(t, native.OK, native.StreamXor(c, m, n, k))
	for i := range c {
		assert.Equal(t, m[i]^ks[i], c[i])
	}

	back := make([]byte, 40)
	n12 := n[:12]
	require.Equal(t, native.OK, native.StreamChaCha20IETFXor(c, m, n12, k))
	require.Equal(t, native.OK, native.StreamChaCha20IETFXor(back, c, n12, k))
	assert.Equal(t, m, back)
}

func TestVerify(t *testing.T) {
	a := bytes.Repeat([]byte{1}, 32)
	b := bytes.Repeat([]byte{1}, 32)
	assert.Equal(t, native.OK, native.Verify(a, b))
	b[31] = 2
	assert.Equal(t, native.Fail, native.Verify(a, b))
	assert.Equal(t, native.Fail, native.Verify(a, b[:16]))
}

func TestPadUnpad(t *testing.T) {
	tests := []struct {
		n, bs int
		want  int
	}{
		{0, 16, 16},
		{5, 16, 16},
		{15, 16, 16},
		{16, 16, 32},
		{3, 1, 4},
		{7, 5, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, uint64(tt.want), native.PaddedLen(uint64(tt.n), uint64(tt.bs)))

		buf := bytes.Repeat([]byte{0x80}, tt.n)
		padded := make([]byte, tt.want)
		require.Equal(t, native.OK, native.Pad(padded, buf, tt.bs))
		assert.Equal(t, byte(0x80), padded[tt.n])

		out := make([]byte, len(padded))
		written, rc := native.Unpad(out, padded, tt.bs)
		require.Equal(t, native.OK, rc, "n=%d bs=%d", tt.n, tt.bs)
		assert.Equal(t, tt.n, written)
		assert.Equal(t, buf, out[:written])
	}

	_, rc := native.Unpad(make([]byte, 16), make([]byte, 16), 16)
	assert.Equal(t, native.Fail, rc, "all-zero block has no barrier")

	_, rc = native.Unpad(make([]byte, 4), []byte{1, 0x80, 0, 0}, 8)
	assert.Equal(t, native.Fail, rc, "buffer shorter than a block")
}

func TestGenericHashIncremental(t *testing.T) {
	msg := []byte("The quick brown fox jumps over the lazy dog, twice over to cross a block boundary or two.")
	for _, key := range [][]byte{nil, bytes.Repeat([]byte{9}, 16), bytes.Repeat([]byte{9}, 64)} {
		want := make([]byte, 32)
		require.Equal(t, native.OK, native.GenericHash(want, msg, key))

		state := make([]byte, native.GenericHashStateBytes)
		require.Equal(t, native.OK, native.GenericHashInit(state, key, 32))
		for _, part := range [][]byte{msg[:1], msg[1:60], {}, msg[60:]} {
			next := make([]byte, native.GenericHashStateBytes)
			require.Equal(t, native.OK, native.GenericHashUpdate(next, state, part))
			state = next
		}
		got := make([]byte, 32)
		require.Equal(t, native.OK, native.GenericHashFinal(got, state))
		assert.Equal(t, want, got, "key length %d", len(key))

		wide := make([]byte, 64)
		require.Equal(t, native.OK, native.GenericHashFinal(wide, state))
		narrow := make([]byte, 16)
		require.Equal(t, native.OK, native.GenericHashFinal(narrow, state))
		assert.Equal(t, wide[:32], got)
		assert.Equal(t, wide[:16], narrow)
	}

	empty := make([]byte, native.GenericHashStateBytes)
	require.Equal(t, native.OK, native.GenericHashInit(empty, nil, 32))
	out := make([]byte, 32)
	require.Equal(t, native.OK, native.GenericHashFinal(out, empty))
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", hex.EncodeToString(out))
}

func TestGenericHashRejectsMalformedState(t *testing.T) {
	state := make([]byte, native.GenericHashStateBytes)
	next := make([]byte, native.GenericHashStateBytes)
	out := make([]byte, 32)
	assert.Equal(t, native.ErrParameter, native.GenericHashUpdate(next, state, []byte("x")))
	assert.Equal(t, native.ErrParameter, native.GenericHashFinal(out, state))

	require.Equal(t, native.OK, native.GenericHashInit(state, nil, 32))
	state[len(state)-1] = 200
	assert.Equal(t, native.ErrParameter, native.GenericHashUpdate(next, state, []byte("x")))

	assert.Equal(t, native.ErrParameter, native.GenericHashInit(state, nil, 0))
	assert.Equal(t, native.ErrParameter, native.GenericHashInit(state, make([]byte, 65), 32))
	assert.Equal(t, native.ErrParameter, native.GenericHashInit(state[:100], nil, 32))
}

func TestSecretStream(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, native.SecretStreamKeyBytes)
	push := make([]byte, native.SecretStreamStateBytes)
	header := make([]byte, native.SecretStreamHeaderBytes)
	require.Equal(t, native.OK, native.SecretStreamInitPush(push, header, key))
	assert.NotEqual(t, make([]byte, native.SecretStreamHeaderBytes), header)

	pull := make([]byte, native.SecretStreamStateBytes)
	require.Equal(t, native.OK, native.SecretStreamInitPull(pull, header, key))
	assert.Equal(t, push, pull)

	tests := []struct {
		m   []byte
		ad  []byte
		tag byte
	}{
		{[]byte("one"), nil, native.SecretStreamTagMessage},
		{bytes.Repeat([]byte{7}, 200), []byte("header data"), native.SecretStreamTagPush},
		{nil, nil, native.SecretStreamTagRekey},
		{[]byte("after rekey"), []byte("x"), native.SecretStreamTagMessage},
		{[]byte("done"), nil, native.SecretStreamTagFinal},
	}
	for i, tt := range tests {
		c := make([]byte, len(tt.m)+native.SecretStreamABytes)
		require.Equal(t, native.OK, native.SecretStreamPush(push, c, tt.m, tt.ad, tt.tag), i)

		m := make([]byte, len(tt.m))
		var tag byte
		before := append([]byte{}, pull...)

		bad := append([]byte{}, c...)
		bad[0] ^= 1
		assert.Equal(t, native.Fail, native.SecretStreamPull(pull, m, &tag, bad, tt.ad), i)
		assert.Equal(t, native.Fail, native.SecretStreamPull(pull, m, &tag, c, []byte("wrong")), i)
		assert.Equal(t, before, pull, "failed pull must leave the state alone")

		require.Equal(t, native.OK, native.SecretStreamPull(pull, m, &tag, c, tt.ad), i)
		assert.Equal(t, tt.tag, tag, i)
		assert.Equal(t, len(tt.m), len(m))
		if len(tt.m) > 0 {
			assert.Equal(t, tt.m, m, i)
		}
		assert.Equal(t, push, pull, i)
	}

	replay := make([]byte, 3+native.SecretStreamABytes)
	fresh := make([]byte, native.SecretStreamStateBytes)
	require.Equal(t, native.OK, native.SecretStreamInitPull(fresh, header, key))
	require.Equal(t, native.OK, native.SecretStreamPush(fresh, replay, []byte("one"), nil, 0))
	var tag byte
	assert.Equal(t, native.Fail, native.SecretStreamPull(pull, make([]byte, 3), &tag, replay, nil))

	assert.Equal(t, native.ErrParameter, native.SecretStreamPush(push, make([]byte, 4), []byte("abc"), nil, 0))
	assert.Equal(t, native.ErrParameter, native.SecretStreamPull(pull, nil, &tag, make([]byte, 16), nil))
	assert.Equal(t, native.ErrParameter, native.SecretStreamInitPull(pull, header[:23], key))
}

func TestCoreEd25519FromUniform(t *testing.T) {
	identity := make([]byte, 32)
	identity[0] = 1
	two := make([]byte, 32)
	two[0] = 2

	for _, seed := range []byte{1, 0x5a, 0xff} {
		r := bytes.Repeat([]byte{seed}, 32)
		r[31] &= 0x7f
		p := make([]byte, 32)
		require.Equal(t, native.OK, native.CoreEd25519FromUniform(p, r))

		again := make([]byte, 32)
		require.Equal(t, native.OK, native.CoreEd25519FromUniform(again, r))
		assert.Equal(t, p, again)

		q := make([]byte, 32)
		assert.Equal(t, native.OK, native.ScalarMultEd25519(q, two, p, false), "point must be in the prime-order subgroup")

		r[31] |= 0x80
		neg := make([]byte, 32)
		require.Equal(t, native.OK, native.CoreEd25519FromUniform(neg, r))
		assert.NotEqual(t, p, neg)
		sum := make([]byte, 32)
		require.Equal(t, native.OK, native.CoreEd25519Add(sum, p, neg))
		assert.Equal(t, identity, sum, "the top bit selects the sign of x")
	}
}

func TestVerifyVariableLength(t *testing.T) {
	assert.Equal(t, native.OK, native.Verify([]byte("abc"), []byte("abc")))
	assert.Equal(t, native.OK, native.Verify(nil, []byte{}))
	assert.Equal(t, native.Fail, native.Verify([]byte("abc"), []byte("abd")))
	assert.Equal(t, native.Fail, native.Verify([]byte("abc"), []byte("ab")))
}
