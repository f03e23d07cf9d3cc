package dispatch

import (
	"sodiumbridge/internal/catalog"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/native"
)

// full reports a primitive that fills its whole output.
func full(out []byte, rc int) (int, int) { return len(out), rc }

func keygen(out []byte, _ *domain.Args) (int, int) {
	return full(out, native.RandomBytes(out))
}

// split binds a pk||sk style output.
func split(n int, fn func(a, b []byte) int) call {
	return func(out []byte, _ *domain.Args) (int, int) {
		return full(out, fn(out[:n], out[n:]))
	}
}

func seeded(n int, fn func(a, b, seed []byte) int) call {
	return func(out []byte, a *domain.Args) (int, int) {
		return full(out, fn(out[:n], out[n:], a.Bytes("seed")))
	}
}

func aeadEncrypt(out []byte, a *domain.Args) (int, int) {
	return full(out, native.AEADEncrypt(out, a.Bytes("m"), a.Bytes("ad"), a.Bytes("npub"), a.Bytes("k")))
}

func aeadDecrypt(out []byte, a *domain.Args) (int, int) {
	return full(out, native.AEADDecrypt(out, a.Bytes("c"), a.Bytes("ad"), a.Bytes("npub"), a.Bytes("k")))
}

func edMult(clamp bool) call {
	return func(out []byte, a *domain.Args) (int, int) {
		return full(out, native.ScalarMultEd25519(out, a.Bytes("n"), a.Bytes("p"), clamp))
	}
}

func edMultBase(clamp bool) call {
	return func(out []byte, a *domain.Args) (int, int) {
		return full(out, native.ScalarMultEd25519Base(out, a.Bytes("n"), clamp))
	}
}

func verify(_ []byte, a *domain.Args) (int, int) {
	return 0, native.Verify(a.Bytes("x"), a.Bytes("y"))
}

// streamStep binds an operation whose output starts with the updated state. The
// input state is copied into place and fn advances it there.
func streamStep(fn func(state, rest []byte, a *domain.Args) int) call {
	return func(out []byte, a *domain.Args) (int, int) {
		state := out[:catalog.SecretStreamStateBytes]
		copy(state, a.Bytes("state"))
		return full(out, fn(state, out[catalog.SecretStreamStateBytes:], a))
	}
}

func bindings() map[domain.OpID]call {
	return map[domain.OpID]call{
		catalog.SecretboxKeygen: keygen,
		catalog.SecretboxEasy: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.SecretboxEasy(out, a.Bytes("m"), a.Bytes("n"), a.Bytes("k")))
		},
		catalog.SecretboxOpenEasy: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.SecretboxOpenEasy(out, a.Bytes("c"), a.Bytes("n"), a.Bytes("k")))
		},

		catalog.AEADChaCha20Poly1305IETFKeygen:   keygen,
		catalog.AEADChaCha20Poly1305IETFEncrypt:  aeadEncrypt,
		catalog.AEADChaCha20Poly1305IETFDecrypt:  aeadDecrypt,
		catalog.AEADXChaCha20Poly1305IETFKeygen:  keygen,
		catalog.AEADXChaCha20Poly1305IETFEncrypt: aeadEncrypt,
		catalog.AEADXChaCha20Poly1305IETFDecrypt: aeadDecrypt,

		catalog.SecretStreamKeygen: keygen,
		catalog.SecretStreamInitPush: func(out []byte, a *domain.Args) (int, int) {
			state, header := out[:catalog.SecretStreamStateBytes], out[catalog.SecretStreamStateBytes:]
			return full(out, native.SecretStreamInitPush(state, header, a.Bytes("key")))
		},
		catalog.SecretStreamPush: streamStep(func(state, c []byte, a *domain.Args) int {
			return native.SecretStreamPush(state, c, a.Bytes("m"), a.Bytes("ad"), byte(a.Scalar("tag")))
		}),
		catalog.SecretStreamInitPull: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.SecretStreamInitPull(out, a.Bytes("header"), a.Bytes("key")))
		},
		catalog.SecretStreamPull: streamStep(func(state, rest []byte, a *domain.Args) int {
			return native.SecretStreamPull(state, rest[1:], &rest[0], a.Bytes("c"), a.Bytes("ad"))
		}),

		catalog.BoxKeypair:     split(catalog.BoxPublicKeyBytes, native.BoxKeypair),
		catalog.BoxSeedKeypair: seeded(catalog.BoxPublicKeyBytes, native.BoxSeedKeypair),
		catalog.BoxEasy: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.BoxEasy(out, a.Bytes("m"), a.Bytes("n"), a.Bytes("pk"), a.Bytes("sk")))
		},
		catalog.BoxOpenEasy: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.BoxOpenEasy(out, a.Bytes("c"), a.Bytes("n"), a.Bytes("pk"), a.Bytes("sk")))
		},
		catalog.BoxSeal: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.BoxSeal(out, a.Bytes("m"), a.Bytes("pk")))
		},
		catalog.BoxSealOpen: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.BoxSealOpen(out, a.Bytes("c"), a.Bytes("pk"), a.Bytes("sk")))
		},

		catalog.KXKeypair:     split(catalog.KXPublicKeyBytes, native.KXKeypair),
		catalog.KXSeedKeypair: seeded(catalog.KXPublicKeyBytes, native.KXSeedKeypair),
		catalog.KXClientSessionKeys: func(out []byte, a *domain.Args) (int, int) {
			rx, tx := out[:catalog.KXSessionKeyBytes], out[catalog.KXSessionKeyBytes:]
			return full(out, native.KXClientSessionKeys(rx, tx, a.Bytes("client_pk"), a.Bytes("client_sk"), a.Bytes("server_pk")))
		},
		catalog.KXServerSessionKeys: func(out []byte, a *domain.Args) (int, int) {
			rx, tx := out[:catalog.KXSessionKeyBytes], out[catalog.KXSessionKeyBytes:]
			return full(out, native.KXServerSessionKeys(rx, tx, a.Bytes("server_pk"), a.Bytes("server_sk"), a.Bytes("client_pk")))
		},

		catalog.ScalarMult: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.ScalarMult(out, a.Bytes("n"), a.Bytes("p")))
		},
		catalog.ScalarMultBase: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.ScalarMultBase(out, a.Bytes("n")))
		},

		catalog.CoreEd25519Add: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.CoreEd25519Add(out, a.Bytes("p"), a.Bytes("q")))
		},
		catalog.CoreEd25519Sub: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.CoreEd25519Sub(out, a.Bytes("p"), a.Bytes("q")))
		},
		catalog.CoreEd25519ScalarRandom: func(out []byte, _ *domain.Args) (int, int) {
			return full(out, native.CoreEd25519ScalarRandom(out))
		},
		catalog.CoreEd25519FromUniform: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.CoreEd25519FromUniform(out, a.Bytes("r")))
		},
		catalog.ScalarMultEd25519:            edMult(true),
		catalog.ScalarMultEd25519NoClamp:     edMult(false),
		catalog.ScalarMultEd25519Base:        edMultBase(true),
		catalog.ScalarMultEd25519BaseNoClamp: edMultBase(false),

		catalog.GenericHash: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.GenericHash(out, a.Bytes("in"), a.Bytes("key")))
		},
		catalog.GenericHashInit: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.GenericHashInit(out, a.Bytes("key"), int(a.Scalar("outlen"))))
		},
		catalog.GenericHashUpdate: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.GenericHashUpdate(out, a.Bytes("state"), a.Bytes("in")))
		},
		catalog.GenericHashFinal: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.GenericHashFinal(out, a.Bytes("state")))
		},
		catalog.HashSHA512: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.HashSHA512(out, a.Bytes("in")))
		},
		catalog.OneTimeAuth: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.OneTimeAuth(out, a.Bytes("m"), a.Bytes("k")))
		},
		catalog.OneTimeAuthVerify: func(_ []byte, a *domain.Args) (int, int) {
			return 0, native.OneTimeAuthVerify(a.Bytes("h"), a.Bytes("m"), a.Bytes("k"))
		},

		catalog.KDFKeygen: keygen,
		catalog.KDFDeriveFromKey: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.KDFDeriveFromKey(out, a.Scalar("subkey_id"), a.Bytes("ctx"), a.Bytes("key")))
		},

		catalog.SignKeypair:     split(catalog.SignPublicKeyBytes, native.SignKeypair),
		catalog.SignSeedKeypair: seeded(catalog.SignPublicKeyBytes, native.SignSeedKeypair),
		catalog.Sign: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.Sign(out, a.Bytes("m"), a.Bytes("sk")))
		},
		catalog.SignOpen: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.SignOpen(out, a.Bytes("sm"), a.Bytes("pk")))
		},
		catalog.SignDetached: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.SignDetached(out, a.Bytes("m"), a.Bytes("sk")))
		},
		catalog.SignVerifyDetached: func(_ []byte, a *domain.Args) (int, int) {
			return 0, native.SignVerifyDetached(a.Bytes("sig"), a.Bytes("m"), a.Bytes("pk"))
		},
		catalog.SignEd25519SkToPk: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.SignEd25519SkToPk(out, a.Bytes("sk")))
		},

		catalog.Pwhash: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.Pwhash(out, a.Bytes("passwd"), a.Bytes("salt"),
				a.Scalar("opslimit"), a.Scalar("memlimit"), int(a.Scalar("alg"))))
		},
		catalog.PwhashScryptSalsa208SHA256: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.PwhashScrypt(out, a.Bytes("passwd"), a.Bytes("salt"),
				a.Scalar("opslimit"), a.Scalar("memlimit")))
		},

		catalog.Stream: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.Stream(out, a.Bytes("n"), a.Bytes("k")))
		},
		catalog.StreamXor: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.StreamXor(out, a.Bytes("m"), a.Bytes("n"), a.Bytes("k")))
		},
		catalog.StreamChaCha20IETFXor: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.StreamChaCha20IETFXor(out, a.Bytes("m"), a.Bytes("n"), a.Bytes("k")))
		},

		catalog.RandomBytesBuf: keygen,

		catalog.Verify16: verify,
		catalog.Verify32: verify,
		catalog.Verify64: verify,
		catalog.Memcmp: func(_ []byte, a *domain.Args) (int, int) {
			return 0, native.Verify(a.Bytes("a"), a.Bytes("b"))
		},

		catalog.Pad: func(out []byte, a *domain.Args) (int, int) {
			return full(out, native.Pad(out, a.Bytes("buf"), int(a.Scalar("blocksize"))))
		},
		catalog.Unpad: func(out []byte, a *domain.Args) (int, int) {
			return native.Unpad(out, a.Bytes("buf"), int(a.Scalar("blocksize")))
		},
	}
}
