package auth

import (
	"log/slog"
	"strings"
)

// Built-in default permission sets per role. These are the documented safe
// fallback when no override is configured for a role.
var (
	adminDefaults = []string{"read", "write", "read:student", "write:student", "read:course", "write:course"}
	userDefaults  = []string{"read", "read:student", "write:student"}
)

// SnapshotFunc returns one consistent role→permissions override mapping.
// The resolver calls it once per resolution, so an externally-mutable
// source (live config reload) must swap the whole map atomically rather
// than mutate it in place.
type SnapshotFunc func() map[string][]string

// Resolver maps a role to its permission set. Overrides come from live
// configuration; misconfiguration degrades to the built-in defaults,
// never to an error and never to broader access.
type Resolver struct {
	snapshot SnapshotFunc
	logger   *slog.Logger
}

// NewResolver creates a permission resolver. snapshot may be nil when no
// override source exists; the resolver then always serves defaults.
func NewResolver(snapshot SnapshotFunc, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{snapshot: snapshot, logger: logger}
}

// Permissions resolves a role to its permission set.
//
// A blank role resolves to the empty set. If the current snapshot carries
// a non-empty sanitised list for the role (matched case-insensitively),
// that list wins; a configured-but-empty list logs a warning and falls
// through to the built-in defaults. Unknown roles resolve to the empty
// set — never an error.
func (r *Resolver) Permissions(role string) []string {
	normalized := NormalizeRole(role)
	if normalized == "" {
		return []string{}
	}

	if r.snapshot != nil {
		if overrides := r.snapshot(); len(overrides) > 0 {
			for key, configured := range overrides {
				if !strings.EqualFold(key, string(normalized)) {
					continue
				}

				sanitized := sanitizePermissions(configured)
				if len(sanitized) > 0 {
					return sanitized
				}

				r.logger.Warn("configured permissions for role are empty, falling back to defaults",
					"role", string(normalized),
				)
				break
			}
		}
	}

	return defaultPermissions(normalized)
}

// defaultPermissions returns a copy of the built-in set for the role.
// Unknown roles get the empty set.
func defaultPermissions(role Role) []string {
	var defaults []string
	switch {
	case strings.EqualFold(string(role), string(RoleAdmin)):
		defaults = adminDefaults
	case strings.EqualFold(string(role), string(RoleUser)):
		defaults = userDefaults
	default:
		return []string{}
	}

	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// sanitizePermissions trims, lowercases, drops blanks, and deduplicates
// (case-insensitively) a configured permission list, preserving first-seen
// order.
func sanitizePermissions(configured []string) []string {
	seen := make(map[string]bool, len(configured))
	out := make([]string, 0, len(configured))

	for _, p := range configured {
		cleaned := strings.ToLower(strings.TrimSpace(p))
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		out = append(out, cleaned)
	}

	return out
}
