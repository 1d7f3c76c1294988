package accesscontrol

// OverrideSet holds every override row loaded for a single user. The
// distinction between an empty set and a set of all-true rows is load
// bearing: a user with no rows at all falls under the fail-open default.
type OverrideSet struct {
	values map[Section]bool
}

func NewOverrideSet(rows []Override) OverrideSet {
	values := make(map[Section]bool, len(rows))
	for _, row := range rows {
		values[row.Section] = row.Allowed
	}
	return OverrideSet{values: values}
}

// Empty reports whether the user has no override rows at all.
func (s OverrideSet) Empty() bool {
	return len(s.values) == 0
}

// Get returns the override value for a section and whether a row exists.
func (s OverrideSet) Get(sec Section) (allowed, ok bool) {
	allowed, ok = s.values[sec]
	return allowed, ok
}

// CanAccess decides whether the identity may see the menu entry. Steps
// short-circuit in order:
//
//  1. the role list is an absolute gate, no override can pierce it;
//  2. entries without a section are role-gated only;
//  3. administrators bypass the override layer;
//  4. a user with zero override rows gets everything their role permits;
//  5. otherwise a section is reachable unless a row explicitly denies it.
//
// The function is pure: overrides are loaded by the caller beforehand, and
// denial is a normal return value, never an error.
func CanAccess(id Identity, entry MenuEntry, overrides OverrideSet) bool {
	if !entry.RoleAllowed(id.Role) {
		return false
	}

	if entry.Section == nil {
		return true
	}

	if id.Role == RoleAdmin {
		return true
	}

	if overrides.Empty() {
		return true
	}

	if allowed, ok := overrides.Get(*entry.Section); ok && !allowed {
		return false
	}
	return true
}

// FilterMenu returns the entries visible to the identity, preserving the
// original order.
func FilterMenu(id Identity, entries []MenuEntry, overrides OverrideSet) []MenuEntry {
	visible := make([]MenuEntry, 0, len(entries))
	for _, entry := range entries {
		if CanAccess(id, entry, overrides) {
			visible = append(visible, entry)
		}
	}
	return visible
}
