// Package entitlement decides whether a training day is served or paywalled.
// It is pure policy: reading the paid flag and the day pointers is the
// caller's job.
package entitlement

type Decision int

const (
	Allow Decision = iota
	RequirePremium
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "require_premium"
}

// DefaultFreeDayLimit is the last day available without a paid profile.
const DefaultFreeDayLimit = 3

type Gate struct {
	FreeDayLimit int
}

func NewGate(freeDayLimit int) *Gate {
	if freeDayLimit <= 0 {
		freeDayLimit = DefaultFreeDayLimit
	}
	return &Gate{FreeDayLimit: freeDayLimit}
}

// Evaluate returns Allow when the user is paid or the requested day falls
// inside the free window.
func (g *Gate) Evaluate(requestedDay int, isPaid bool) Decision {
	if isPaid || requestedDay <= g.FreeDayLimit {
		return Allow
	}
	return RequirePremium
}
