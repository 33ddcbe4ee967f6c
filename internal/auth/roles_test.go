package auth

import "testing"

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Role
	}{
		{"canonical admin", "Admin", RoleAdmin},
		{"lowercase admin", "admin", RoleAdmin},
		{"uppercase admin", "ADMIN", RoleAdmin},
		{"padded admin", "  Admin  ", RoleAdmin},
		{"canonical user", "User", RoleUser},
		{"lowercase user", "user", RoleUser},
		{"mixed case user", "uSeR", RoleUser},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"unknown role passes through trimmed", "  Teacher  ", Role("Teacher")},
		{"unknown role keeps casing", "superADMIN", Role("superADMIN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRole(tt.in); got != tt.want {
				t.Errorf("NormalizeRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRole_Idempotent(t *testing.T) {
	inputs := []string{"admin", "ADMIN", " User ", "Teacher", "", "  "}

	for _, in := range inputs {
		once := NormalizeRole(in)
		twice := NormalizeRole(string(once))
		if once != twice {
			t.Errorf("NormalizeRole not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestRoleOrDefault(t *testing.T) {
	if got := roleOrDefault("", RoleUser); got != RoleUser {
		t.Errorf("roleOrDefault(\"\") = %q, want %q", got, RoleUser)
	}
	if got := roleOrDefault("  ", RoleAdmin); got != RoleAdmin {
		t.Errorf("roleOrDefault(blank) = %q, want %q", got, RoleAdmin)
	}
	if got := roleOrDefault("admin", RoleUser); got != RoleAdmin {
		t.Errorf("roleOrDefault(\"admin\") = %q, want %q", got, RoleAdmin)
	}
}
