package catalog

import "sodiumbridge/internal/domain"

func bytesRole(name string, size domain.Range) domain.Role {
	return domain.Role{Name: name, Kind: domain.ArgBytes, Size: size}
}

func fixed(name string, n uint64) domain.Role { return bytesRole(name, domain.Exact(n)) }

func message(name string) domain.Role { return bytesRole(name, domain.Between(0, MaxMessage)) }

// sealed is a ciphertext carrying overhead bytes on top of a message.
func sealed(name string, overhead uint64) domain.Role {
	return bytesRole(name, domain.Between(overhead, MaxMessage+overhead))
}

func scalar(name string, r domain.Range) domain.Role {
	return domain.Role{Name: name, Kind: domain.ArgScalar, Size: r}
}

func secret(r domain.Role) domain.Role {
	r.Secret = true
	return r
}

func optional(r domain.Role) domain.Role {
	r.Optional = true
	return r
}

func none() domain.Output { return domain.Output{Kind: domain.OutNone} }

func exactly(n uint64) domain.Output { return domain.Output{Kind: domain.OutFixed, N: n} }

func plus(role string, n uint64) domain.Output {
	return domain.Output{Kind: domain.OutPlus, Role: role, N: n}
}

func minus(role string, n uint64) domain.Output {
	return domain.Output{Kind: domain.OutMinus, Role: role, N: n}
}

func valueOf(role string) domain.Output { return domain.Output{Kind: domain.OutScalar, Role: role} }

func hidden(o domain.Output) domain.Output {
	o.Secret = true
	return o
}

func roles(r ...domain.Role) []domain.Role { return r }

func keygen(id domain.OpID, name, family string, n uint64) domain.Descriptor {
	return domain.Descriptor{
		ID: id, Name: name, Family: family,
		Output: hidden(exactly(n)),
		Doc:    "generate a random key",
	}
}

func keypair(id domain.OpID, name, family string, n uint64) domain.Descriptor {
	d := keygen(id, name, family, n)
	d.Doc = "generate pk||sk"
	return d
}

func aead(ids [3]domain.OpID, prefix string, npub uint64) []domain.Descriptor {
	return []domain.Descriptor{
		keygen(ids[0], prefix+"_keygen", "aead", AEADChaCha20Poly1305IETFKeyBytes),
		{
			ID: ids[1], Name: prefix + "_encrypt", Family: "aead",
			Roles: roles(
				secret(message("m")),
				optional(message("ad")),
				optional(fixed("nsec", AEADChaCha20Poly1305IETFNSecBytes)),
				fixed("npub", npub),
				secret(fixed("k", AEADChaCha20Poly1305IETFKeyBytes)),
			),
			Output: plus("m", AEADChaCha20Poly1305IETFABytes),
			Doc:    "encrypt and authenticate m with additional data ad",
		},
		{
			ID: ids[2], Name: prefix + "_decrypt", Family: "aead",
			Roles: roles(
				optional(fixed("nsec", AEADChaCha20Poly1305IETFNSecBytes)),
				sealed("c", AEADChaCha20Poly1305IETFABytes),
				optional(message("ad")),
				fixed("npub", npub),
				secret(fixed("k", AEADChaCha20Poly1305IETFKeyBytes)),
			),
			Output:    hidden(minus("c", AEADChaCha20Poly1305IETFABytes)),
			OnFailure: domain.FailAuth,
			Doc:       "verify and decrypt c with additional data ad",
		},
	}
}

func kxSession(id domain.OpID, name, own, peer string) domain.Descriptor {
	return domain.Descriptor{
		ID: id, Name: name, Family: "kx",
		Roles: roles(
			fixed(own+"_pk", KXPublicKeyBytes),
			secret(fixed(own+"_sk", KXSecretKeyBytes)),
			fixed(peer+"_pk", KXPublicKeyBytes),
		),
		Output: hidden(exactly(2 * KXSessionKeyBytes)),
		Distinct: [][2]string{
			{own + "_pk", own + "_sk"},
			{own + "_sk", peer + "_pk"},
			{own + "_pk", peer + "_pk"},
		},
		Doc: "derive rx||tx session keys",
	}
}

func edPointOp(id domain.OpID, name, doc string) domain.Descriptor {
	return domain.Descriptor{
		ID: id, Name: name, Family: "core_ed25519",
		Roles:  roles(fixed("p", Ed25519Bytes), fixed("q", Ed25519Bytes)),
		Output: exactly(Ed25519Bytes),
		Doc:    doc,
	}
}

func edScalarMult(id domain.OpID, name, doc string) domain.Descriptor {
	return domain.Descriptor{
		ID: id, Name: name, Family: "scalarmult_ed25519",
		Roles:    roles(secret(fixed("n", Ed25519ScalarBytes)), fixed("p", Ed25519Bytes)),
		Output:   hidden(exactly(Ed25519Bytes)),
		Distinct: [][2]string{{"n", "p"}},
		Doc:      doc,
	}
}

func edScalarMultBase(id domain.OpID, name, doc string) domain.Descriptor {
	return domain.Descriptor{
		ID: id, Name: name, Family: "scalarmult_ed25519",
		Roles:  roles(secret(fixed("n", Ed25519ScalarBytes))),
		Output: exactly(Ed25519Bytes),
		Doc:    doc,
	}
}

func verify(id domain.OpID, name string, n uint64) domain.Descriptor {
	return domain.Descriptor{
		ID: id, Name: name, Family: "verify",
		Roles:     roles(fixed("x", n), fixed("y", n)),
		Output:    none(),
		OnFailure: domain.FailAuth,
		Doc:       "constant-time comparison",
	}
}

// secretStream describes crypto_secretstream_xchacha20poly1305. The stream
// state travels as an input role and comes back at the front of the output.
func secretStream() []domain.Descriptor {
	const prefix = "crypto_secretstream_xchacha20poly1305"
	state := secret(fixed("state", SecretStreamStateBytes))
	return []domain.Descriptor{
		keygen(SecretStreamKeygen, prefix+"_keygen", "secretstream", SecretStreamKeyBytes),
		{
			ID: SecretStreamInitPush, Name: prefix + "_init_push", Family: "secretstream",
			Roles:  roles(secret(fixed("key", SecretStreamKeyBytes))),
			Output: hidden(exactly(SecretStreamStateBytes + SecretStreamHeaderBytes)),
			Doc:    "start a stream, returning state||header",
		},
		{
			ID: SecretStreamPush, Name: prefix + "_push", Family: "secretstream",
			Roles: roles(
				state,
				secret(message("m")),
				optional(message("ad")),
				scalar("tag", domain.Between(0, SecretStreamTagMax)),
			),
			Output: hidden(plus("m", SecretStreamStateBytes+SecretStreamABytes)),
			Doc:    "encrypt the next message, returning state||c",
		},
		{
			ID: SecretStreamInitPull, Name: prefix + "_init_pull", Family: "secretstream",
			Roles: roles(
				fixed("header", SecretStreamHeaderBytes),
				secret(fixed("key", SecretStreamKeyBytes)),
			),
			Output: hidden(exactly(SecretStreamStateBytes)),
			Doc:    "join a stream from its header",
		},
		{
			ID: SecretStreamPull, Name: prefix + "_pull", Family: "secretstream",
			Roles: roles(
				state,
				sealed("c", SecretStreamABytes),
				optional(message("ad")),
			),
			Output:    hidden(plus("c", SecretStreamStateBytes+1-SecretStreamABytes)),
			OnFailure: domain.FailAuth,
			Doc:       "verify and decrypt the next message, returning state||tag||m",
		},
	}
}

func descriptors() []domain.Descriptor {
	out := []domain.Descriptor{
		keygen(SecretboxKeygen, "crypto_secretbox_keygen", "secretbox", SecretboxKeyBytes),
		{
			ID: SecretboxEasy, Name: "crypto_secretbox_easy", Family: "secretbox",
			Roles: roles(
				secret(message("m")),
				fixed("n", SecretboxNonceBytes),
				secret(fixed("k", SecretboxKeyBytes)),
			),
			Output: plus("m", SecretboxMacBytes),
			Doc:    "encrypt and authenticate m",
		},
		{
			ID: SecretboxOpenEasy, Name: "crypto_secretbox_open_easy", Family: "secretbox",
			Roles: roles(
				sealed("c", SecretboxMacBytes),
				fixed("n", SecretboxNonceBytes),
				secret(fixed("k", SecretboxKeyBytes)),
			),
			Output:    hidden(minus("c", SecretboxMacBytes)),
			OnFailure: domain.FailAuth,
			Doc:       "verify and decrypt c",
		},

		keypair(BoxKeypair, "crypto_box_keypair", "box", BoxPublicKeyBytes+BoxSecretKeyBytes),
		{
			ID: BoxSeedKeypair, Name: "crypto_box_seed_keypair", Family: "box",
			Roles:  roles(secret(fixed("seed", BoxSeedBytes))),
			Output: hidden(exactly(BoxPublicKeyBytes + BoxSecretKeyBytes)),
			Doc:    "derive pk||sk from seed",
		},
		{
			ID: BoxEasy, Name: "crypto_box_easy", Family: "box",
			Roles: roles(
				secret(message("m")),
				fixed("n", BoxNonceBytes),
				fixed("pk", BoxPublicKeyBytes),
				secret(fixed("sk", BoxSecretKeyBytes)),
			),
			Output:   plus("m", BoxMacBytes),
			Distinct: [][2]string{{"pk", "sk"}},
			Doc:      "encrypt m for pk, authenticated by sk",
		},
		{
			ID: BoxOpenEasy, Name: "crypto_box_open_easy", Family: "box",
			Roles: roles(
				sealed("c", BoxMacBytes),
				fixed("n", BoxNonceBytes),
				fixed("pk", BoxPublicKeyBytes),
				secret(fixed("sk", BoxSecretKeyBytes)),
			),
			Output:    hidden(minus("c", BoxMacBytes)),
			OnFailure: domain.FailAuth,
			Distinct:  [][2]string{{"pk", "sk"}},
			Doc:       "verify and decrypt c from pk",
		},
		{
			ID: BoxSeal, Name: "crypto_box_seal", Family: "box",
			Roles:  roles(secret(message("m")), fixed("pk", BoxPublicKeyBytes)),
			Output: plus("m", BoxSealBytes),
			Doc:    "anonymously encrypt m for pk",
		},
		{
			ID: BoxSealOpen, Name: "crypto_box_seal_open", Family: "box",
			Roles: roles(
				sealed("c", BoxSealBytes),
				fixed("pk", BoxPublicKeyBytes),
				secret(fixed("sk", BoxSecretKeyBytes)),
			),
			Output:    hidden(minus("c", BoxSealBytes)),
			OnFailure: domain.FailAuth,
			Distinct:  [][2]string{{"pk", "sk"}},
			Doc:       "open a sealed box",
		},

		keypair(KXKeypair, "crypto_kx_keypair", "kx", KXPublicKeyBytes+KXSecretKeyBytes),
		{
			ID: KXSeedKeypair, Name: "crypto_kx_seed_keypair", Family: "kx",
			Roles:  roles(secret(fixed("seed", KXSeedBytes))),
			Output: hidden(exactly(KXPublicKeyBytes + KXSecretKeyBytes)),
			Doc:    "derive pk||sk from seed",
		},
		kxSession(KXClientSessionKeys, "crypto_kx_client_session_keys", "client", "server"),
		kxSession(KXServerSessionKeys, "crypto_kx_server_session_keys", "server", "client"),

		{
			ID: ScalarMult, Name: "crypto_scalarmult", Family: "scalarmult",
			Roles:    roles(secret(fixed("n", ScalarMultScalarBytes)), fixed("p", ScalarMultBytes)),
			Output:   hidden(exactly(ScalarMultBytes)),
			Distinct: [][2]string{{"n", "p"}},
			Doc:      "X25519 shared point n*p",
		},
		{
			ID: ScalarMultBase, Name: "crypto_scalarmult_base", Family: "scalarmult",
			Roles:  roles(secret(fixed("n", ScalarMultScalarBytes))),
			Output: exactly(ScalarMultBytes),
			Doc:    "X25519 public point n*B",
		},

		edPointOp(CoreEd25519Add, "crypto_core_ed25519_add", "p+q"),
		edPointOp(CoreEd25519Sub, "crypto_core_ed25519_sub", "p-q"),
		{
			ID: CoreEd25519ScalarRandom, Name: "crypto_core_ed25519_scalar_random", Family: "core_ed25519",
			Output: hidden(exactly(Ed25519ScalarBytes)),
			Doc:    "random non-zero scalar mod L",
		},
		{
			ID: CoreEd25519FromUniform, Name: "crypto_core_ed25519_from_uniform", Family: "core_ed25519",
			Roles:  roles(fixed("r", Ed25519UniformBytes)),
			Output: exactly(Ed25519Bytes),
			Doc:    "map 32 uniform bytes to a prime-order point (Elligator 2)",
		},
		edScalarMult(ScalarMultEd25519, "crypto_scalarmult_ed25519", "clamped n*p"),
		edScalarMult(ScalarMultEd25519NoClamp, "crypto_scalarmult_ed25519_noclamp", "n*p"),
		edScalarMultBase(ScalarMultEd25519Base, "crypto_scalarmult_ed25519_base", "clamped n*B"),
		edScalarMultBase(ScalarMultEd25519BaseNoClamp, "crypto_scalarmult_ed25519_base_noclamp", "n*B"),

		{
			ID: GenericHash, Name: "crypto_generichash", Family: "generichash",
			Roles: roles(
				scalar("outlen", domain.Between(GenericHashBytesMin, GenericHashBytesMax)),
				message("in"),
				optional(secret(bytesRole("key", domain.Between(GenericHashKeyBytesMin, GenericHashKeyBytesMax)))),
			),
			Output: valueOf("outlen"),
			Doc:    "BLAKE2b, optionally keyed",
		},
		{
			ID: GenericHashInit, Name: "crypto_generichash_init", Family: "generichash",
			Roles: roles(
				optional(secret(bytesRole("key", domain.Between(GenericHashKeyBytesMin, GenericHashKeyBytesMax)))),
				scalar("outlen", domain.Between(GenericHashBytesMin, GenericHashBytesMax)),
			),
			Output: hidden(exactly(GenericHashStateBytes)),
			Doc:    "start an incremental BLAKE2b, returning its state",
		},
		{
			ID: GenericHashUpdate, Name: "crypto_generichash_update", Family: "generichash",
			Roles:  roles(secret(fixed("state", GenericHashStateBytes)), message("in")),
			Output: hidden(exactly(GenericHashStateBytes)),
			Doc:    "absorb in, returning the next state",
		},
		{
			ID: GenericHashFinal, Name: "crypto_generichash_final", Family: "generichash",
			Roles: roles(
				secret(fixed("state", GenericHashStateBytes)),
				scalar("outlen", domain.Between(GenericHashBytesMin, GenericHashBytesMax)),
			),
			Output: valueOf("outlen"),
			Doc:    "finish an incremental BLAKE2b",
		},
		{
			ID: HashSHA512, Name: "crypto_hash_sha512", Family: "hash",
			Roles:  roles(message("in")),
			Output: exactly(HashSHA512Bytes),
			Doc:    "SHA-512",
		},
		{
			ID: OneTimeAuth, Name: "crypto_onetimeauth", Family: "onetimeauth",
			Roles:  roles(message("m"), secret(fixed("k", OneTimeAuthKeyBytes))),
			Output: exactly(OneTimeAuthBytes),
			Doc:    "Poly1305 tag",
		},
		{
			ID: OneTimeAuthVerify, Name: "crypto_onetimeauth_verify", Family: "onetimeauth",
			Roles: roles(
				fixed("h", OneTimeAuthBytes),
				message("m"),
				secret(fixed("k", OneTimeAuthKeyBytes)),
			),
			Output:    none(),
			OnFailure: domain.FailAuth,
			Doc:       "verify a Poly1305 tag",
		},

		keygen(KDFKeygen, "crypto_kdf_keygen", "kdf", KDFKeyBytes),
		{
			ID: KDFDeriveFromKey, Name: "crypto_kdf_derive_from_key", Family: "kdf",
			Roles: roles(
				scalar("subkey_len", domain.Between(KDFBytesMin, KDFBytesMax)),
				scalar("subkey_id", domain.AtLeast(0)),
				fixed("ctx", KDFContextBytes),
				secret(fixed("key", KDFKeyBytes)),
			),
			Output: hidden(valueOf("subkey_len")),
			Doc:    "derive subkey subkey_id of key under ctx",
		},

		keypair(SignKeypair, "crypto_sign_keypair", "sign", SignPublicKeyBytes+SignSecretKeyBytes),
		{
			ID: SignSeedKeypair, Name: "crypto_sign_seed_keypair", Family: "sign",
			Roles:  roles(secret(fixed("seed", SignSeedBytes))),
			Output: hidden(exactly(SignPublicKeyBytes + SignSecretKeyBytes)),
			Doc:    "derive pk||sk from seed",
		},
		{
			ID: Sign, Name: "crypto_sign", Family: "sign",
			Roles:  roles(message("m"), secret(fixed("sk", SignSecretKeyBytes))),
			Output: plus("m", SignBytes),
			Doc:    "signed message sig||m",
		},
		{
			ID: SignOpen, Name: "crypto_sign_open", Family: "sign",
			Roles:     roles(sealed("sm", SignBytes), fixed("pk", SignPublicKeyBytes)),
			Output:    minus("sm", SignBytes),
			OnFailure: domain.FailAuth,
			Doc:       "verify sm and return m",
		},
		{
			ID: SignDetached, Name: "crypto_sign_detached", Family: "sign",
			Roles:  roles(message("m"), secret(fixed("sk", SignSecretKeyBytes))),
			Output: exactly(SignBytes),
			Doc:    "detached signature of m",
		},
		{
			ID: SignVerifyDetached, Name: "crypto_sign_verify_detached", Family: "sign",
			Roles: roles(
				fixed("sig", SignBytes),
				message("m"),
				fixed("pk", SignPublicKeyBytes),
			),
			Output:    none(),
			OnFailure: domain.FailAuth,
			Doc:       "verify a detached signature",
		},
		{
			ID: SignEd25519SkToPk, Name: "crypto_sign_ed25519_sk_to_pk", Family: "sign",
			Roles:  roles(secret(fixed("sk", SignSecretKeyBytes))),
			Output: exactly(SignPublicKeyBytes),
			Doc:    "public half of an Ed25519 secret key",
		},

		{
			ID: Pwhash, Name: "crypto_pwhash", Family: "pwhash",
			Roles: roles(
				scalar("outlen", domain.Between(PwhashBytesMin, PwhashBytesMax)),
				secret(message("passwd")),
				fixed("salt", PwhashSaltBytes),
				scalar("opslimit", domain.Between(PwhashOpsLimitMin, PwhashOpsLimitMax)),
				scalar("memlimit", domain.Between(PwhashMemLimitMin, PwhashMemLimitMax)),
				scalar("alg", domain.Between(PwhashAlgArgon2i13, PwhashAlgArgon2id13)),
			),
			Rules: []domain.Rule{
				{Kind: domain.RuleMinWhen, Role: "opslimit", Other: "alg", When: PwhashAlgArgon2i13, Min: PwhashArgon2iOpsLimitMin},
			},
			Output: hidden(valueOf("outlen")),
			Heavy:  true,
			Doc:    "Argon2 password hash",
		},
		{
			ID: PwhashScryptSalsa208SHA256, Name: "crypto_pwhash_scryptsalsa208sha256", Family: "pwhash",
			Roles: roles(
				scalar("outlen", domain.Between(PwhashBytesMin, PwhashBytesMax)),
				secret(message("passwd")),
				fixed("salt", ScryptSaltBytes),
				scalar("opslimit", domain.Between(ScryptOpsLimitMin, ScryptOpsLimitMax)),
				scalar("memlimit", domain.Between(ScryptMemLimitMin, ScryptMemLimitMax)),
			),
			Output: hidden(valueOf("outlen")),
			Heavy:  true,
			Doc:    "scrypt password hash",
		},

		{
			ID: Stream, Name: "crypto_stream", Family: "stream",
			Roles: roles(
				scalar("len", domain.Between(0, MaxMessage)),
				fixed("n", StreamNonceBytes),
				secret(fixed("k", StreamKeyBytes)),
			),
			Output: hidden(valueOf("len")),
			Doc:    "XSalsa20 keystream",
		},
		{
			ID: StreamXor, Name: "crypto_stream_xor", Family: "stream",
			Roles: roles(
				secret(message("m")),
				fixed("n", StreamNonceBytes),
				secret(fixed("k", StreamKeyBytes)),
			),
			Output: hidden(plus("m", 0)),
			Doc:    "m XOR XSalsa20 keystream",
		},
		{
			ID: StreamChaCha20IETFXor, Name: "crypto_stream_chacha20_ietf_xor", Family: "stream",
			Roles: roles(
				secret(message("m")),
				fixed("n", StreamChaCha20IETFNonceBytes),
				secret(fixed("k", StreamChaCha20IETFKeyBytes)),
			),
			Output: hidden(plus("m", 0)),
			Doc:    "m XOR ChaCha20 (IETF) keystream",
		},

		{
			ID: RandomBytesBuf, Name: "randombytes_buf", Family: "randombytes",
			Roles:  roles(scalar("size", domain.Between(0, RandomBytesMax))),
			Output: hidden(valueOf("size")),
			Doc:    "size random bytes",
		},

		verify(Verify16, "crypto_verify_16", 16),
		verify(Verify32, "crypto_verify_32", 32),
		verify(Verify64, "crypto_verify_64", 64),
		{
			ID: Memcmp, Name: "sodium_memcmp", Family: "verify",
			Roles: roles(message("a"), message("b")),
			Rules: []domain.Rule{
				{Kind: domain.RuleSameLength, Role: "b", Other: "a"},
			},
			Output:    none(),
			OnFailure: domain.FailAuth,
			Doc:       "constant-time comparison of equal-length buffers",
		},

		{
			ID: Pad, Name: "sodium_pad", Family: "padding",
			Roles: roles(
				message("buf"),
				scalar("blocksize", domain.Between(1, PadBlockSizeMax)),
			),
			Output: domain.Output{Kind: domain.OutPadded, Role: "buf", Param: "blocksize"},
			Doc:    "ISO/IEC 7816-4 padding",
		},
		{
			ID: Unpad, Name: "sodium_unpad", Family: "padding",
			Roles: roles(
				bytesRole("buf", domain.Between(1, MaxMessage+PadBlockSizeMax)),
				scalar("blocksize", domain.Between(1, PadBlockSizeMax)),
			),
			Output: domain.Output{Kind: domain.OutBounded, Role: "buf"},
			Doc:    "strip ISO/IEC 7816-4 padding",
		},
	}

	out = append(out, secretStream()...)
	out = append(out, aead(
		[3]domain.OpID{AEADChaCha20Poly1305IETFKeygen, AEADChaCha20Poly1305IETFEncrypt, AEADChaCha20Poly1305IETFDecrypt},
		"crypto_aead_chacha20poly1305_ietf", AEADChaCha20Poly1305IETFNPubBytes)...)
	out = append(out, aead(
		[3]domain.OpID{AEADXChaCha20Poly1305IETFKeygen, AEADXChaCha20Poly1305IETFEncrypt, AEADXChaCha20Poly1305IETFDecrypt},
		"crypto_aead_xchacha20poly1305_ietf", AEADXChaCha20Poly1305IETFNPubBytes)...)
	return out
}
