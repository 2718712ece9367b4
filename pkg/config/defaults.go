package config

// Bench defaults.
const (
	DefaultBenchSeed  = 1
	DefaultBenchOrder = OrderRandom
)

// DefaultBenchSizes are the tree sizes built by the bench command.
var DefaultBenchSizes = []int{1_000, 10_000, 100_000}

// DefaultBenchImpls are the implementations compared by the bench command.
var DefaultBenchImpls = []string{ImplBST, ImplLLRB}

// Verify defaults.
const (
	DefaultVerifyOperations = 10_000
	DefaultVerifyKeySpace   = 1_000
	DefaultVerifySeed       = 1
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = FormatText
)

// Output defaults.
const (
	DefaultColor = ColorAuto
)
