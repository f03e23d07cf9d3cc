// Package catalogtest builds argument lists for catalog operations in tests.
package catalogtest

import (
	"bytes"
	"fmt"

	"sodiumbridge/internal/catalog"
	"sodiumbridge/internal/codec"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/native"
)

// Shape returns managed values of the minimum valid shape for every role:
// zeroed bytes of the minimum length, absent optionals and minimum scalars,
// raised where a rule demands more. The values pass validation but may be
// rejected by the primitive.
func Shape(desc domain.Descriptor) []any {
	out := make([]any, len(desc.Roles))
	for i, r := range desc.Roles {
		switch {
		case r.Kind == domain.ArgScalar:
			out[i] = r.Size.Min
		case r.Optional:
			out[i] = nil
		default:
			out[i] = make([]byte, r.Size.Min)
		}
	}
	for _, rule := range desc.Rules {
		i, j := desc.RoleIndex(rule.Role), desc.RoleIndex(rule.Other)
		switch rule.Kind {
		case domain.RuleSameLength:
			other, _ := out[j].([]byte)
			out[i] = make([]byte, len(other))
		case domain.RuleMinWhen:
			if out[j] == rule.When && out[i].(uint64) < rule.Min {
				out[i] = rule.Min
			}
		}
	}
	return out
}

// Bind decodes values with the bytes codec into role-ordered arguments.
func Bind(desc domain.Descriptor, values []any) (domain.Args, error) {
	c := codec.Bytes{}
	args := domain.Args{}
	for i, v := range values {
		if i >= len(desc.Roles) {
			args.Extra++
			continue
		}
		r := desc.Roles[i]
		arg := domain.Arg{Role: r.Name, Kind: r.Kind}
		switch {
		case v == nil:
			arg.Buffer = domain.Absent()
		case r.Kind == domain.ArgScalar:
			n, err := c.DecodeScalar(v)
			if err != nil {
				return args, err
			}
			arg.Value, arg.Present = n, true
		default:
			buf, err := c.Decode(v)
			if err != nil {
				return args, err
			}
			arg.Buffer, arg.Present = buf, true
		}
		args.List = append(args.List, arg)
	}
	for i := len(args.List); i < len(desc.Roles); i++ {
		r := desc.Roles[i]
		args.List = append(args.List, domain.Arg{Role: r.Name, Kind: r.Kind, Buffer: domain.Absent()})
	}
	return args, nil
}

// Valid returns managed values for which the primitive succeeds.
func Valid(id domain.OpID) []any {
	b, ok := valid[id]
	if !ok {
		desc, _ := catalog.ByID(id)
		if len(desc.Roles) == 0 {
			return nil
		}
		panic(fmt.Sprintf("catalogtest: no valid fixture for %s", desc.Name))
	}
	return b()
}

func fill(n int, v byte) []byte { return bytes.Repeat([]byte{v}, n) }

func must(rc int) {
	if rc != native.OK {
		panic(fmt.Sprintf("catalogtest: fixture primitive failed with %d", rc))
	}
}

// BoxPair returns a deterministic box key pair.
func BoxPair(seed byte) (pk, sk []byte) {
	pk, sk = make([]byte, 32), make([]byte, 32)
	must(native.BoxSeedKeypair(pk, sk, fill(32, seed)))
	return pk, sk
}

// SignPair returns a deterministic Ed25519 key pair.
func SignPair(seed byte) (pk, sk []byte) {
	pk, sk = make([]byte, 32), make([]byte, 64)
	must(native.SignSeedKeypair(pk, sk, fill(32, seed)))
	return pk, sk
}

// Ed25519Base is the encoding of the Ed25519 base point.
func Ed25519Base() []byte {
	q := make([]byte, 32)
	one := make([]byte, 32)
	one[0] = 1
	must(native.ScalarMultEd25519Base(q, one, false))
	return q
}

// HashState returns a fresh incremental BLAKE2b state.
func HashState(key []byte, outlen int) []byte {
	state := make([]byte, native.GenericHashStateBytes)
	must(native.GenericHashInit(state, key, outlen))
	return state
}

// PushState starts a secretstream under key and returns its state and header.
func PushState(key []byte) (state, header []byte) {
	state = make([]byte, native.SecretStreamStateBytes)
	header = make([]byte, native.SecretStreamHeaderBytes)
	must(native.SecretStreamInitPush(state, header, key))
	return state, header
}

var message = []byte("hello, world!")

var valid = map[domain.OpID]func() []any{
	catalog.SecretboxEasy: func() []any {
		return []any{message, fill(24, 1), fill(32, 2)}
	},
	catalog.SecretboxOpenEasy: func() []any {
		n, k := fill(24, 1), fill(32, 2)
		c := make([]byte, len(message)+16)
		must(native.SecretboxEasy(c, message, n, k))
		return []any{c, n, k}
	},
	catalog.AEADChaCha20Poly1305IETFEncrypt: func() []any {
		return []any{message, []byte("ad"), nil, fill(12, 1), fill(32, 2)}
	},
	catalog.AEADChaCha20Poly1305IETFDecrypt: func() []any {
		npub, k := fill(12, 1), fill(32, 2)
		c := make([]byte, len(message)+16)
		must(native.AEADEncrypt(c, message, []byte("ad"), npub, k))
		return []any{nil, c, []byte("ad"), npub, k}
	},
	catalog.AEADXChaCha20Poly1305IETFEncrypt: func() []any {
		return []any{message, nil, nil, fill(24, 1), fill(32, 2)}
	},
	catalog.AEADXChaCha20Poly1305IETFDecrypt: func() []any {
		npub, k := fill(24, 1), fill(32, 2)
		c := make([]byte, len(message)+16)
		must(native.AEADEncrypt(c, message, nil, npub, k))
		return []any{nil, c, nil, npub, k}
	},
	catalog.SecretStreamInitPush: func() []any { return []any{fill(32, 2)} },
	catalog.SecretStreamPush: func() []any {
		state, _ := PushState(fill(32, 2))
		return []any{state, message, []byte("ad"), uint64(native.SecretStreamTagMessage)}
	},
	catalog.SecretStreamInitPull: func() []any { return []any{fill(24, 1), fill(32, 2)} },
	catalog.SecretStreamPull: func() []any {
		state, header := PushState(fill(32, 2))
		c := make([]byte, len(message)+native.SecretStreamABytes)
		must(native.SecretStreamPush(state, c, message, []byte("ad"), native.SecretStreamTagMessage))
		pull := make([]byte, native.SecretStreamStateBytes)
		must(native.SecretStreamInitPull(pull, header, fill(32, 2)))
		return []any{pull, c, []byte("ad")}
	},
	catalog.BoxSeedKeypair: func() []any { return []any{fill(32, 3)} },
	catalog.BoxEasy: func() []any {
		pk, _ := BoxPair(1)
		_, sk := BoxPair(2)
		return []any{message, fill(24, 1), pk, sk}
	},
	catalog.BoxOpenEasy: func() []any {
		apk, ask := BoxPair(1)
		bpk, bsk := BoxPair(2)
		n := fill(24, 1)
		c := make([]byte, len(message)+16)
		must(native.BoxEasy(c, message, n, bpk, ask))
		return []any{c, n, apk, bsk}
	},
	catalog.BoxSeal: func() []any {
		pk, _ := BoxPair(1)
		return []any{message, pk}
	},
	catalog.BoxSealOpen: func() []any {
		pk, sk := BoxPair(1)
		c := make([]byte, len(message)+48)
		must(native.BoxSeal(c, message, pk))
		return []any{c, pk, sk}
	},
	catalog.KXSeedKeypair: func() []any { return []any{fill(32, 4)} },
	catalog.KXClientSessionKeys: func() []any {
		cpk, csk := BoxPair(1)
		spk, _ := BoxPair(2)
		return []any{cpk, csk, spk}
	},
	catalog.KXServerSessionKeys: func() []any {
		cpk, _ := BoxPair(1)
		spk, ssk := BoxPair(2)
		return []any{spk, ssk, cpk}
	},
	catalog.ScalarMult: func() []any {
		pk, _ := BoxPair(1)
		return []any{fill(32, 5), pk}
	},
	catalog.ScalarMultBase: func() []any { return []any{fill(32, 5)} },
	catalog.CoreEd25519Add: func() []any {
		return []any{Ed25519Base(), Ed25519Base()}
	},
	catalog.CoreEd25519Sub: func() []any {
		return []any{Ed25519Base(), Ed25519Base()}
	},
	catalog.CoreEd25519FromUniform: func() []any { return []any{fill(32, 0x5a)} },
	catalog.ScalarMultEd25519: func() []any {
		return []any{fill(32, 6), Ed25519Base()}
	},
	catalog.ScalarMultEd25519NoClamp: func() []any {
		n := make([]byte, 32)
		n[0] = 2
		return []any{n, Ed25519Base()}
	},
	catalog.ScalarMultEd25519Base: func() []any {
		return []any{fill(32, 6)}
	},
	catalog.ScalarMultEd25519BaseNoClamp: func() []any {
		n := make([]byte, 32)
		n[0] = 3
		return []any{n}
	},
	catalog.GenericHash: func() []any {
		return []any{uint64(32), message, nil}
	},
	catalog.GenericHashInit: func() []any {
		return []any{fill(32, 3), uint64(32)}
	},
	catalog.GenericHashUpdate: func() []any {
		return []any{HashState(nil, 32), message}
	},
	catalog.GenericHashFinal: func() []any {
		return []any{HashState(nil, 32), uint64(32)}
	},
	catalog.HashSHA512:  func() []any { return []any{message} },
	catalog.OneTimeAuth: func() []any { return []any{message, fill(32, 7)} },
	catalog.OneTimeAuthVerify: func() []any {
		k := fill(32, 7)
		h := make([]byte, 16)
		must(native.OneTimeAuth(h, message, k))
		return []any{h, message, k}
	},
	catalog.KDFDeriveFromKey: func() []any {
		return []any{uint64(32), uint64(1), []byte("Examples"), fill(32, 8)}
	},
	catalog.SignSeedKeypair: func() []any { return []any{fill(32, 9)} },
	catalog.Sign: func() []any {
		_, sk := SignPair(1)
		return []any{message, sk}
	},
	catalog.SignOpen: func() []any {
		pk, sk := SignPair(1)
		sm := make([]byte, len(message)+64)
		must(native.Sign(sm, message, sk))
		return []any{sm, pk}
	},
	catalog.SignDetached: func() []any {
		_, sk := SignPair(1)
		return []any{message, sk}
	},
	catalog.SignVerifyDetached: func() []any {
		pk, sk := SignPair(1)
		sig := make([]byte, 64)
		must(native.SignDetached(sig, message, sk))
		return []any{sig, message, pk}
	},
	catalog.SignEd25519SkToPk: func() []any {
		_, sk := SignPair(1)
		return []any{sk}
	},
	catalog.Pwhash: func() []any {
		return []any{uint64(16), []byte("password"), fill(16, 1), uint64(1), uint64(8192), uint64(native.AlgArgon2id13)}
	},
	catalog.PwhashScryptSalsa208SHA256: func() []any {
		return []any{uint64(16), []byte("password"), fill(32, 1), uint64(catalog.ScryptOpsLimitMin), uint64(catalog.ScryptMemLimitMin)}
	},
	catalog.Stream: func() []any {
		return []any{uint64(32), fill(24, 1), fill(32, 2)}
	},
	catalog.StreamXor: func() []any {
		return []any{message, fill(24, 1), fill(32, 2)}
	},
	catalog.StreamChaCha20IETFXor: func() []any {
		return []any{message, fill(12, 1), fill(32, 2)}
	},
	catalog.RandomBytesBuf: func() []any { return []any{uint64(32)} },
	catalog.Verify16:       func() []any { return []any{fill(16, 1), fill(16, 1)} },
	catalog.Verify32:       func() []any { return []any{fill(32, 1), fill(32, 1)} },
	catalog.Verify64:       func() []any { return []any{fill(64, 1), fill(64, 1)} },
	catalog.Memcmp:         func() []any { return []any{[]byte("abc"), []byte("abc")} },
	catalog.Pad:            func() []any { return []any{[]byte("abc"), uint64(16)} },
	catalog.Unpad: func() []any {
		padded := make([]byte, 16)
		copy(padded, "abc")
		padded[3] = 0x80
		return []any{padded, uint64(16)}
	},
}
