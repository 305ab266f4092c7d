package internal

import "strings"

// Normalizer converts turns received from the backend into transcript turns
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeTurns drops entries that cannot be shown as a turn and
// canonicalizes role names. Order is preserved.
func (n *Normalizer) NormalizeTurns(raw []Turn) []Turn {
	turns := make([]Turn, 0, len(raw))
	for i, t := range raw {
		t.Role = n.normalizeRole(t.Role)
		if err := t.Validate(); err != nil {
			LogDebug("Dropping history entry %d: %v", i, err)
			continue
		}
		turns = append(turns, t)
	}
	return turns
}

// normalizeRole folds case and surrounding space on the two known roles.
// Anything else is returned unchanged and later dropped.
func (n *Normalizer) normalizeRole(role Role) Role {
	switch strings.ToLower(strings.TrimSpace(string(role))) {
	case "user":
		return RoleUser
	case "assistant":
		return RoleAssistant
	default:
		return role
	}
}
