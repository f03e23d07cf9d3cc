package catalog

// Sizes follow the libsodium constants of the same names.
const (
	MaxMessage = 1 << 30

	SecretboxKeyBytes   = 32
	SecretboxNonceBytes = 24
	SecretboxMacBytes   = 16

	AEADChaCha20Poly1305IETFKeyBytes   = 32
	AEADChaCha20Poly1305IETFNPubBytes  = 12
	AEADXChaCha20Poly1305IETFNPubBytes = 24
	AEADChaCha20Poly1305IETFABytes     = 16
	AEADChaCha20Poly1305IETFNSecBytes  = 0
	AEADXChaCha20Poly1305IETFKeyBytes  = 32
	AEADXChaCha20Poly1305IETFABytes    = 16

	SecretStreamKeyBytes    = 32
	SecretStreamHeaderBytes = 24
	SecretStreamABytes      = 17
	SecretStreamStateBytes  = 52
	SecretStreamTagMax      = 255

	BoxPublicKeyBytes = 32
	BoxSecretKeyBytes = 32
	BoxSeedBytes      = 32
	BoxNonceBytes     = 24
	BoxMacBytes       = 16
	BoxSealBytes      = BoxPublicKeyBytes + BoxMacBytes

	KXPublicKeyBytes  = 32
	KXSecretKeyBytes  = 32
	KXSeedBytes       = 32
	KXSessionKeyBytes = 32

	ScalarMultBytes       = 32
	ScalarMultScalarBytes = 32

	Ed25519Bytes        = 32
	Ed25519ScalarBytes  = 32
	Ed25519UniformBytes = 32

	GenericHashBytesMin    = 16
	GenericHashBytesMax    = 64
	GenericHashKeyBytesMin = 16
	GenericHashKeyBytesMax = 64
	GenericHashStateBytes  = 213

	HashSHA512Bytes = 64

	OneTimeAuthBytes    = 16
	OneTimeAuthKeyBytes = 32

	KDFKeyBytes     = 32
	KDFContextBytes = 8
	KDFBytesMin     = 16
	KDFBytesMax     = 64

	SignPublicKeyBytes = 32
	SignSecretKeyBytes = 64
	SignSeedBytes      = 32
	SignBytes          = 64

	PwhashSaltBytes     = 16
	PwhashBytesMin      = 16
	PwhashBytesMax      = 1 << 20
	PwhashOpsLimitMin   = 1
	PwhashOpsLimitMax   = 1<<32 - 1
	PwhashMemLimitMin   = 8192
	PwhashMemLimitMax   = 1 << 32
	PwhashAlgArgon2i13  = 1
	PwhashAlgArgon2id13 = 2

	PwhashArgon2iOpsLimitMin = 3

	ScryptSaltBytes   = 32
	ScryptOpsLimitMin = 32768
	ScryptOpsLimitMax = 1<<32 - 1
	ScryptMemLimitMin = 16 << 20
	ScryptMemLimitMax = 1 << 32

	StreamKeyBytes               = 32
	StreamNonceBytes             = 24
	StreamChaCha20IETFKeyBytes   = 32
	StreamChaCha20IETFNonceBytes = 12

	RandomBytesMax = MaxMessage

	PadBlockSizeMax = 1 << 20
)
