// Package lookup provides ready-made setting.Lookup implementations backed by
// in-memory maps, environment variables, Consul's key-value store and viper, plus
// Chain for ordered fallback between them.
//
// Every lookup reports a missing key as found == false, never as an error. Errors
// are reserved for the backing store itself failing (e.g. Consul unreachable).
package lookup
