package app

// Config holds runtime wiring options for building the app.
type Config struct {
	LogLevel    string // zap level name, e.g. "info"; defaults to "warn"
	Workers     int    // worker pool size for heavy operations; 0 selects GOMAXPROCS
	LockSecrets bool   // pin secret buffers in memory for the duration of a call
	MetricsAddr string // optional; serve /metrics, /live and /ready on this address
	JSON        bool   // exchange byte sequences as number arrays
}
