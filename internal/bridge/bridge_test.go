package bridge_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sodiumbridge/internal/bridge"
	"sodiumbridge/internal/catalog"
	"sodiumbridge/internal/catalog/catalogtest"
	"sodiumbridge/internal/codec"
	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/errors"
)

type BridgeSuite struct {
	suite.Suite
	ctx  context.Context
	reg  *prometheus.Registry
	logs *observer.ObservedLogs
	b    *bridge.Bridge
}

func TestBridgeSuite(t *testing.T) {
	suite.Run(t, new(BridgeSuite))
}

func (s *BridgeSuite) SetupTest() {
	s.ctx = context.Background()
	s.reg = prometheus.NewRegistry()
	core, logs := observer.New(zapcore.DebugLevel)
	s.logs = logs

	b, err := bridge.New(bridge.Config{
		Logger:     zap.New(core),
		Registerer: s.reg,
		Workers:    2,
	})
	s.Require().NoError(err)
	s.b = b
}

func (s *BridgeSuite) TearDownTest() {
	s.b.Close()
}

func (s *BridgeSuite) bytesOf(res domain.Result) []byte {
	s.T().Helper()
	s.Require().True(res.OK(), "unexpected failure: %v", res.Err())
	out, ok := res.Value().([]byte)
	s.Require().True(ok, "value is %T", res.Value())
	return out
}

func (s *BridgeSuite) requireKind(res domain.Result, kind errors.Kind) *errors.Error {
	s.T().Helper()
	s.Require().False(res.OK(), "expected %s", kind)
	s.Require().Equal(kind, res.Err().Kind, "got %v", res.Err())
	return res.Err()
}

func (s *BridgeSuite) TestEveryOperationProducesPredictedLength() {
	for _, desc := range s.b.Operations() {
		values := catalogtest.Valid(desc.ID)

		want, err := s.b.OutputLen(s.ctx, desc.Name, values...)
		s.Require().Nil(err, desc.Name)

		out := s.bytesOf(s.b.Call(s.ctx, desc.Name, values...))
		if desc.Output.Kind == domain.OutBounded {
			s.LessOrEqual(uint64(len(out)), want, desc.Name)
		} else {
			s.Equal(want, uint64(len(out)), desc.Name)
		}
	}
}

func (s *BridgeSuite) TestOffByOneLengthsAreRejected() {
	for _, desc := range s.b.Operations() {
		for i, role := range desc.Roles {
			if role.Kind != domain.ArgBytes || !role.Size.IsExact() {
				continue
			}
			for _, n := range []uint64{role.Size.Min + 1, role.Size.Min - 1} {
				if role.Size.Min == 0 && n != 1 {
					continue
				}
				values := catalogtest.Valid(desc.ID)
				values[i] = make([]byte, n)
				err := s.requireKind(s.b.Call(s.ctx, desc.Name, values...), errors.KindInvalidLength)
				s.Equal(role.Name, err.Role, desc.Name)
			}
		}
	}
}

func (s *BridgeSuite) TestBoxScenario() {
	apk, ask := catalogtest.BoxPair(10)
	bpk, bsk := catalogtest.BoxPair(11)
	_, csk := catalogtest.BoxPair(12)
	nonce := make([]byte, 24)
	msg := []byte("hello, world!")
	s.Require().Len(msg, 13)

	c := s.bytesOf(s.b.Call(s.ctx, "crypto_box_easy", msg, nonce, bpk, ask))
	s.Len(c, 29)

	m := s.bytesOf(s.b.Call(s.ctx, "crypto_box_open_easy", c, nonce, apk, bsk))
	s.Equal(msg, m)

	s.requireKind(s.b.Call(s.ctx, "crypto_box_open_easy", c, nonce, apk, csk), errors.KindAuthentication)

	tampered := append([]byte{}, c...)
	tampered[20] ^= 0x01
	s.requireKind(s.b.Call(s.ctx, "crypto_box_open_easy", tampered, nonce, apk, bsk), errors.KindAuthentication)
}

func (s *BridgeSuite) TestRoundTripsAndTampering() {
	key := bytes.Repeat([]byte{1}, 32)
	msg := []byte("the quick brown fox")

	n24 := make([]byte, 24)
	c := s.bytesOf(s.b.Call(s.ctx, "crypto_secretbox_easy", msg, n24, key))
	s.Equal(msg, s.bytesOf(s.b.Call(s.ctx, "crypto_secretbox_open_easy", c, n24, key)))
	c[0] ^= 0x80
	s.requireKind(s.b.Call(s.ctx, "crypto_secretbox_open_easy", c, n24, key), errors.KindAuthentication)

	n12 := make([]byte, 12)
	ad := []byte("ad")
	c = s.bytesOf(s.b.Call(s.ctx, "crypto_aead_chacha20poly1305_ietf_encrypt", msg, ad, nil, n12, key))
	s.Equal(msg, s.bytesOf(s.b.Call(s.ctx, "crypto_aead_chacha20poly1305_ietf_decrypt", nil, c, ad, n12, key)))
	s.requireKind(s.b.Call(s.ctx, "crypto_aead_chacha20poly1305_ietf_decrypt", nil, c, nil, n12, key), errors.KindAuthentication)

	c = s.bytesOf(s.b.Call(s.ctx, "crypto_aead_xchacha20poly1305_ietf_encrypt", msg, nil, nil, n24, key))
	s.Equal(msg, s.bytesOf(s.b.Call(s.ctx, "crypto_aead_xchacha20poly1305_ietf_decrypt", nil, c, nil, n24, key)))

	pk, sk := catalogtest.BoxPair(20)
	sealed := s.bytesOf(s.b.Call(s.ctx, "crypto_box_seal", msg, pk))
	s.Equal(msg, s.bytesOf(s.b.Call(s.ctx, "crypto_box_seal_open", sealed, pk, sk)))

	spk, ssk := catalogtest.SignPair(21)
	sm := s.bytesOf(s.b.Call(s.ctx, "crypto_sign", msg, ssk))
	s.Equal(msg, s.bytesOf(s.b.Call(s.ctx, "crypto_sign_open", sm, spk)))
	sig := s.bytesOf(s.b.Call(s.ctx, "crypto_sign_detached", msg, ssk))
	s.True(s.b.Call(s.ctx, "crypto_sign_verify_detached", sig, msg, spk).OK())
	s.requireKind(s.b.Call(s.ctx, "crypto_sign_verify_detached", sig, []byte("other"), spk), errors.KindAuthentication)
}

func (s *BridgeSuite) TestKeypairsSplitPublicAndSecret() {
	kp := s.bytesOf(s.b.Call(s.ctx, "crypto_sign_keypair"))
	s.Require().Len(kp, 96)
	pk := s.bytesOf(s.b.Call(s.ctx, "crypto_sign_ed25519_sk_to_pk", kp[32:]))
	s.Equal(kp[:32], pk)

	box := s.bytesOf(s.b.Call(s.ctx, "crypto_box_keypair"))
	s.Require().Len(box, 64)
	derived := s.bytesOf(s.b.Call(s.ctx, "crypto_scalarmult_base", box[32:]))
	s.Equal(box[:32], derived)
}

func (s *BridgeSuite) TestEmptyHashIsDeterministic() {
	a := s.bytesOf(s.b.Call(s.ctx, "crypto_generichash", 32, []byte{}, nil))
	b := s.bytesOf(s.b.Call(s.ctx, "crypto_generichash", 32, []byte{}, nil))
	s.Equal(a, b)
	s.Len(a, 32)

	h := s.bytesOf(s.b.Call(s.ctx, "crypto_hash_sha512", []byte{}))
	s.Len(h, 64)
}

func (s *BridgeSuite) TestUnsupportedOperation() {
	s.requireKind(s.b.Call(s.ctx, "crypto_does_not_exist"), errors.KindUnsupported)
	s.requireKind(s.b.Invoke(s.ctx, domain.OpID(catalog.Count)), errors.KindUnsupported)

	_, err := s.b.OutputLen(s.ctx, "crypto_does_not_exist")
	s.Require().NotNil(err)
	s.True(stderrors.Is(err, errors.UnsupportedOperation))
}

func (s *BridgeSuite) TestInitIsIdempotent() {
	s.Equal(1, s.b.Init())
	s.Equal(1, s.b.Init())

	other, err := bridge.New(bridge.Config{Registerer: s.reg})
	s.Require().NoError(err)
	defer other.Close()
	s.Equal(1, other.Init())
}

func (s *BridgeSuite) TestOutputLenIsDeterministic() {
	values := []any{make([]byte, 100), make([]byte, 24), make([]byte, 32)}
	a, err := s.b.OutputLen(s.ctx, "crypto_secretbox_easy", values...)
	s.Require().Nil(err)
	b, err := s.b.OutputLen(s.ctx, "crypto_secretbox_easy", values...)
	s.Require().Nil(err)
	s.Equal(uint64(116), a)
	s.Equal(a, b)

	_, err = s.b.OutputLen(s.ctx, "crypto_secretbox_easy", make([]byte, 1), make([]byte, 23), make([]byte, 32))
	s.Require().NotNil(err)
	s.Equal(errors.KindInvalidLength, err.Kind)
}

func (s *BridgeSuite) TestManagedInputsAreNotModified() {
	key := bytes.Repeat([]byte{7}, 32)
	msg := []byte("keep me")
	s.bytesOf(s.b.Call(s.ctx, "crypto_secretbox_easy", msg, make([]byte, 24), key))
	s.Equal(bytes.Repeat([]byte{7}, 32), key)
	s.Equal([]byte("keep me"), msg)
}

func (s *BridgeSuite) TestFormatErrorsNameTheRole() {
	err := s.requireKind(s.b.Call(s.ctx, "crypto_secretbox_easy", "text", make([]byte, 24), make([]byte, 32)), errors.KindFormat)
	s.Equal("m", err.Role)
	s.Equal(errors.PhaseDecode, err.Phase)

	err = s.requireKind(s.b.Call(s.ctx, "crypto_generichash", -1, []byte{}, nil), errors.KindFormat)
	s.Equal("outlen", err.Role)
}

func (s *BridgeSuite) TestMissingAndExtraArguments() {
	err := s.requireKind(s.b.Call(s.ctx, "crypto_secretbox_easy", []byte("m"), make([]byte, 24)), errors.KindMissingArgument)
	s.Equal("k", err.Role)

	s.requireKind(s.b.Call(s.ctx, "crypto_hash_sha512", []byte{}, []byte{}), errors.KindFormat)
}

func (s *BridgeSuite) TestAliasedKeysAreRejected() {
	shared := make([]byte, 32)
	err := s.requireKind(s.b.Call(s.ctx, "crypto_scalarmult", shared, shared), errors.KindAliasedArgument)
	s.Equal("n,p", err.Role)
}

func (s *BridgeSuite) TestNumberArrayCodec() {
	b, err := bridge.New(bridge.Config{Codec: codec.NumberArray{}})
	s.Require().NoError(err)
	defer b.Close()

	res := b.Call(s.ctx, "crypto_hash_sha512", []any{})
	s.Require().True(res.OK())
	out, ok := res.Value().([]any)
	s.Require().True(ok)
	s.Len(out, 64)
	s.Equal(float64(0xcf), out[0])
}

func (s *BridgeSuite) TestGoDeliversOneResult() {
	values := catalogtest.Valid(catalog.Pwhash)
	res := <-s.b.Go(s.ctx, "crypto_pwhash", values...)
	s.Len(s.bytesOf(res), 16)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.requireKind(<-s.b.Go(ctx, "crypto_hash_sha512", []byte{}), errors.KindUnavailable)

	s.NoError(s.b.Ready())
	s.b.Close()
	s.requireKind(<-s.b.Go(s.ctx, "crypto_hash_sha512", []byte{}), errors.KindUnavailable)
	s.True(stderrors.Is(s.b.Ready(), errors.Unavailable))
}

func (s *BridgeSuite) TestMetrics() {
	s.bytesOf(s.b.Call(s.ctx, "crypto_hash_sha512", []byte("x")))
	s.b.Call(s.ctx, "crypto_hash_sha512", nil)

	count, err := testutil.GatherAndCount(s.reg, "sodiumbridge_invocations_total")
	s.Require().NoError(err)
	s.Equal(2, count)

	families, err := s.reg.Gather()
	s.Require().NoError(err)
	got := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "sodiumbridge_invocations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			got[labels(m)["outcome"]] = m.GetCounter().GetValue()
		}
	}
	s.Equal(float64(1), got["ok"])
	s.Equal(float64(1), got[string(errors.KindMissingArgument)])
}

func labels(m *dto.Metric) map[string]string {
	out := map[string]string{}
	for _, l := range m.GetLabel() {
		out[l.GetName()] = l.GetValue()
	}
	return out
}

func (s *BridgeSuite) TestFailuresAreLoggedWithoutPayload() {
	secret := []byte("super-secret-key-material-000000")
	s.b.Call(s.ctx, "crypto_secretbox_easy", []byte("m"), make([]byte, 23), secret)

	entries := s.logs.FilterMessage("invocation failed").All()
	s.Require().Len(entries, 1)
	fields := entries[0].ContextMap()
	s.Equal("crypto_secretbox_easy", fields["op"])
	s.Equal(string(errors.KindInvalidLength), fields["kind"])
	s.Equal("n", fields["role"])
	for _, v := range fields {
		str, _ := v.(string)
		s.NotContains(str, "super-secret")
	}
}

func (s *BridgeSuite) TestModuleRegistration() {
	exports := bridge.Exports{}
	s.Require().NoError(s.b.Module().Register(exports))
	s.Len(exports.Names(), catalog.Count+1)
	s.Equal("sodium", s.b.Module().Name())

	res := exports.Call(s.ctx, "crypto_hash_sha512", []byte{})
	s.Len(s.bytesOf(res), 64)

	res = exports.Call(s.ctx, "crypto_pwhash", catalogtest.Valid(catalog.Pwhash)...)
	s.Len(s.bytesOf(res), 16)

	s.Equal(1, exports.Call(s.ctx, "sodium_init").Value())
	s.requireKind(exports.Call(s.ctx, "crypto_nope"), errors.KindUnsupported)

	s.Error(s.b.Module().Register(exports), "second registration collides")
}

func (s *BridgeSuite) TestFailureLogsCarryObservedValue() {
	s.b.Call(s.ctx, "crypto_secretbox_easy", []byte("m"), make([]byte, 23), make([]byte, 32))

	entries := s.logs.FilterMessage("invocation failed").All()
	s.Require().Len(entries, 1)
	fields := entries[0].ContextMap()
	s.Equal(int64(23), fields["actual"])
	s.NotEmpty(fields["expected"])

	s.logs.TakeAll()
	s.b.Call(s.ctx, "crypto_secretbox_easy", []byte("m"), make([]byte, 24))
	entries = s.logs.FilterMessage("invocation failed").All()
	s.Require().Len(entries, 1)
	s.NotContains(entries[0].ContextMap(), "actual")
}

func (s *BridgeSuite) TestBusyWorkersGauge() {
	count, err := testutil.GatherAndCount(s.reg, "sodiumbridge_workers_busy")
	s.Require().NoError(err)
	s.Equal(1, count)

	families, err := s.reg.Gather()
	s.Require().NoError(err)
	for _, f := range families {
		if f.GetName() == "sodiumbridge_workers_busy" {
			s.Equal(float64(s.b.Running()), f.GetMetric()[0].GetGauge().GetValue())
		}
	}

	other, err := bridge.New(bridge.Config{Registerer: s.reg})
	s.Require().NoError(err)
	count, err = testutil.GatherAndCount(s.reg, "sodiumbridge_workers_busy")
	s.Require().NoError(err)
	s.Equal(1, count, "a second bridge takes the gauge over")

	other.Close()
	count, err = testutil.GatherAndCount(s.reg, "sodiumbridge_workers_busy")
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *BridgeSuite) TestIncrementalGenericHash() {
	key := bytes.Repeat([]byte{3}, 32)
	want := s.bytesOf(s.b.Call(s.ctx, "crypto_generichash", 32, []byte("hello, world"), key))

	state := s.bytesOf(s.b.Call(s.ctx, "crypto_generichash_init", key, 32))
	s.Len(state, catalog.GenericHashStateBytes)
	state = s.bytesOf(s.b.Call(s.ctx, "crypto_generichash_update", state, []byte("hello, ")))
	state = s.bytesOf(s.b.Call(s.ctx, "crypto_generichash_update", state, []byte("world")))
	s.Equal(want, s.bytesOf(s.b.Call(s.ctx, "crypto_generichash_final", state, 32)))

	batch := s.b.GenericHashBatch(s.ctx, 32, []any{[]byte("hel"), []byte("lo, wor"), []byte("ld")}, key)
	s.Equal(want, s.bytesOf(batch))

	unkeyed := s.bytesOf(s.b.Call(s.ctx, "crypto_generichash", 16, []byte{}, nil))
	s.Equal(unkeyed, s.bytesOf(s.b.GenericHashBatch(s.ctx, 16, nil, nil)))

	err := s.requireKind(s.b.GenericHashBatch(s.ctx, 32, []any{[]byte("a"), "text"}, key), errors.KindFormat)
	s.Equal("crypto_generichash_update", err.Op)
	s.requireKind(s.b.GenericHashBatch(s.ctx, 8, nil, nil), errors.KindOutOfRange)
}

func (s *BridgeSuite) TestSecretStreamScenario() {
	const prefix = "crypto_secretstream_xchacha20poly1305"
	key := s.bytesOf(s.b.Call(s.ctx, prefix+"_keygen"))
	s.Len(key, 32)

	started := s.bytesOf(s.b.Call(s.ctx, prefix+"_init_push", key))
	push, header := started[:52], started[52:]
	pull := s.bytesOf(s.b.Call(s.ctx, prefix+"_init_pull", header, key))

	messages := []struct {
		m   string
		ad  []byte
		tag int
	}{
		{"first", nil, 0},
		{"second", []byte("meta"), 2},
		{"", nil, 1},
		{"last", nil, 3},
	}
	for _, msg := range messages {
		out := s.bytesOf(s.b.Call(s.ctx, prefix+"_push", push, []byte(msg.m), msg.ad, msg.tag))
		c := out[52:]
		push = out[:52]
		s.Len(c, len(msg.m)+17)

		tampered := append([]byte{}, c...)
		tampered[len(tampered)-1] ^= 1
		s.requireKind(s.b.Call(s.ctx, prefix+"_pull", pull, tampered, msg.ad), errors.KindAuthentication)

		got := s.bytesOf(s.b.Call(s.ctx, prefix+"_pull", pull, c, msg.ad))
		pull = got[:52]
		s.Equal(byte(msg.tag), got[52], msg.m)
		s.Equal([]byte(msg.m), got[53:])
	}

	err := s.requireKind(s.b.Call(s.ctx, prefix+"_push", push, []byte("x"), nil, 256), errors.KindOutOfRange)
	s.Equal("tag", err.Role)
	err = s.requireKind(s.b.Call(s.ctx, prefix+"_pull", pull, make([]byte, 16), nil), errors.KindInvalidLength)
	s.Equal("c", err.Role)
}

func (s *BridgeSuite) TestArgon2iNeedsThreePasses() {
	values := catalogtest.Valid(catalog.Pwhash)
	values[3], values[5] = 2, 1
	err := s.requireKind(s.b.Call(s.ctx, "crypto_pwhash", values...), errors.KindOutOfRange)
	s.Equal("opslimit", err.Role)
	s.Equal(errors.PhaseValidate, err.Phase)

	values[3] = 3
	s.Len(s.bytesOf(s.b.Call(s.ctx, "crypto_pwhash", values...)), 16)
}

func (s *BridgeSuite) TestMemcmp() {
	s.True(s.b.Call(s.ctx, "sodium_memcmp", []byte("abc"), []byte("abc")).OK())
	s.requireKind(s.b.Call(s.ctx, "sodium_memcmp", []byte("abc"), []byte("abd")), errors.KindAuthentication)
	err := s.requireKind(s.b.Call(s.ctx, "sodium_memcmp", []byte("abc"), []byte("ab")), errors.KindInvalidLength)
	s.Equal("b", err.Role)
}
