//go:build !debug

package tables

// validateDebug is a no-op outside debug builds; the sampled-triple
// associativity and identity checks cost a few table lookups each but
// are skipped by default since Build already guarantees them by
// construction — they exist to catch a hand-edited or corrupted table file,
// not a freshly-built one.
func validateDebug(Tables) error { return nil }
