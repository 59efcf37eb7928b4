package shared

// Role is the caller's role asserted by the identity collaborator.
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleBookkeeper Role = "bookkeeper"
	RoleAdmin      Role = "admin"
)

// Capability is a named privilege required by an engine operation.
type Capability string

const (
	CapabilityReadReports Capability = "read_reports"
	CapabilityPost        Capability = "post_transactions"
	CapabilityVoid        Capability = "void_transactions"
	CapabilityMove        Capability = "move_lines"
	CapabilitySaveBudget  Capability = "save_budget"
	CapabilityAdminChart  Capability = "administer_chart"
)

// rank orders roles so that a higher role carries every lower capability.
func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleBookkeeper:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// Allows reports whether the role carries the capability. Reads require
// viewer or above, ledger and budget writes require bookkeeper or above,
// chart-of-accounts and fund administration require admin.
func (r Role) Allows(c Capability) bool {
	switch c {
	case CapabilityReadReports:
		return r.rank() >= RoleViewer.rank()
	case CapabilityPost, CapabilityVoid, CapabilityMove, CapabilitySaveBudget:
		return r.rank() >= RoleBookkeeper.rank()
	case CapabilityAdminChart:
		return r.rank() >= RoleAdmin.rank()
	default:
		return false
	}
}

// Actor identifies the caller of a privileged operation. It is passed
// explicitly into every engine call; the engine never reads ambient state.
type Actor struct {
	ID   string
	Role Role
}

// Require returns an AuthorizationError unless the actor's role carries the
// capability.
func (a Actor) Require(c Capability) error {
	if !a.Role.Allows(c) {
		return AuthorizationError{Role: a.Role, Capability: c}
	}
	return nil
}
