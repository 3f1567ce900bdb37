package config

// HammerConfig is implemented by every run configuration. The type string
// selects the generator, handler and stats implementations.
type HammerConfig interface {
	HammerType() string
}
