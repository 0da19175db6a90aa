package common

import "fmt"

// Orphan policies for an object whose record write failed. Keep leaves the
// object in place; delete removes it on a best-effort basis.
const (
	OrphanKeep   = "keep"
	OrphanDelete = "delete"
)

// ValidateOrphanPolicy accepts the exact policy names. An empty value means
// OrphanKeep.
func ValidateOrphanPolicy(policy string) error {
	switch policy {
	case "", OrphanKeep, OrphanDelete:
		return nil
	default:
		return fmt.Errorf("unknown orphan policy %q (want %q or %q)", policy, OrphanKeep, OrphanDelete)
	}
}
