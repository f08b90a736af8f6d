package domain

import "fmt"

// IdentityScheme selects which transaction field is authoritative for
// deduplication and for the persisted hash column. It is fixed for the
// duration of a run.
type IdentityScheme string

const (
	// SchemeLegacy uses the content-derived hash. Collision-prone; kept for
	// stores populated before the stable identifier existed.
	SchemeLegacy IdentityScheme = "legacy"
	// SchemeStable uses the engine-assigned unique identifier.
	SchemeStable IdentityScheme = "stable"
)

// ParseIdentityScheme parses a configuration value into an IdentityScheme.
// The empty string maps to SchemeLegacy so existing deployments keep their
// behavior until they opt in.
func ParseIdentityScheme(s string) (IdentityScheme, error) {
	switch IdentityScheme(s) {
	case SchemeLegacy, "":
		return SchemeLegacy, nil
	case SchemeStable:
		return SchemeStable, nil
	default:
		return "", fmt.Errorf("unknown identity scheme %q", s)
	}
}

// ResolveIdentity returns the authoritative identity value of tx under the
// given scheme.
func ResolveIdentity(scheme IdentityScheme, tx Transaction) string {
	if scheme == SchemeStable {
		return tx.UniqueID
	}
	return tx.LegacyHash
}
