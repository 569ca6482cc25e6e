// Package strategy selects the storage discipline for a mock's generated
// state from the interface's concurrency requirement. The choice is made
// once per spec and threaded through synthesis.
package strategy

import (
	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// Kind is the resolved storage strategy.
type Kind int

// Storage strategies.
const (
	// Direct lays tracking, backing, and handler fields out as independent,
	// unsynchronized fields on the mock struct.
	Direct Kind = iota
	// DualLock guards a single state aggregate with a lock shim that is
	// emitted twice: a sync.Mutex shim for ordinary builds and a portable
	// channel-semaphore shim behind the forge_legacy_locks build tag, so
	// exactly one compiles per target.
	DualLock
	// LegacyLock emits only the channel-semaphore shim, unconditionally.
	LegacyLock
)

// Select resolves the storage strategy for a spec. forceLegacy is the single
// configuration boolean of the engine; it only matters when the requirement
// calls for locking at all.
func Select(requirement model.ConcurrencyRequirement, forceLegacy bool) Kind {
	switch requirement {
	case model.ConcurrencyNone:
		return Direct
	case model.ConcurrencyThreadSafe, model.ConcurrencyIsolationDomain:
		if forceLegacy {
			return LegacyLock
		}

		return DualLock
	default:
		panic("unhandled concurrency requirement")
	}
}

// Locked reports whether the strategy guards state with a lock.
func (k Kind) Locked() bool {
	return k != Direct
}

// CrossIsolation reports whether every generated accessor, including reset,
// must be marked callable from outside the isolation domain. Correctness is
// already carried by the lock, so the marking is safe.
func CrossIsolation(requirement model.ConcurrencyRequirement) bool {
	return requirement == model.ConcurrencyIsolationDomain
}
