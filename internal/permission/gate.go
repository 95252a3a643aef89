// Package permission decides whether the current actor may open a create or
// update screen, given a capability prefix and the actor's grants.
package permission

import (
	"strings"
	"sync"
)

// Capability is the action a screen needs.
type Capability int

const (
	Create Capability = iota + 1
	Update
)

func (c Capability) String() string {
	switch c {
	case Create:
		return "create"
	case Update:
		return "update"
	default:
		return "unknown"
	}
}

// CapabilityFor picks Update for a record that already has an id.
func CapabilityFor(recordID string) Capability {
	if strings.TrimSpace(recordID) != "" {
		return Update
	}
	return Create
}

// Permission is the evaluated grant for one capability.
type Permission struct {
	Capability Capability
	Granted    bool
}

// Status is the gate's evaluation state.
type Status int

const (
	Unevaluated Status = iota
	Authorized
	Unauthorized
)

func (s Status) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unevaluated"
	}
}

// Checker answers whether a capability path such as
// "/content/article/create" is granted.
type Checker interface {
	Check(capability string) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(capability string) bool

func (f CheckerFunc) Check(capability string) bool { return f(capability) }

// Path joins a prefix and a capability: "/content/article" + Create.
func Path(prefix string, c Capability) string {
	return strings.TrimRight(prefix, "/") + "/" + c.String()
}

// Evaluate checks the capability implied by recordID against checker.
func Evaluate(prefix, recordID string, checker Checker) Permission {
	c := CapabilityFor(recordID)
	p := Permission{Capability: c}
	if checker != nil {
		p.Granted = checker.Check(Path(prefix, c))
	}
	return p
}

// Gate memoises the last evaluation for rendering. It never caches across
// calls to Evaluate: each call recomputes from the checker.
type Gate struct {
	mu      sync.Mutex
	prefix  string
	checker Checker
	status  Status
	last    Permission
}

func NewGate(prefix string, checker Checker) *Gate {
	return &Gate{prefix: prefix, checker: checker}
}

func (g *Gate) Evaluate(recordID string) Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = Evaluate(g.prefix, recordID, g.checker)
	if g.last.Granted {
		g.status = Authorized
	} else {
		g.status = Unauthorized
	}
	return g.last
}

func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Gate) Permission() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Allowed is true only after an evaluation granted access.
func (g *Gate) Allowed() bool {
	return g.Status() == Authorized
}
