package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Admin@Example.COM", "admin@example.com"},
		{"  user@host.org  ", "user@host.org"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Email(tc.in); got != tc.want {
			t.Errorf("Email(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("  Ana Maria  "); got != "Ana Maria" {
		t.Errorf("Name kept case but trimmed: got %q", got)
	}
}

func TestStatusAndRole(t *testing.T) {
	if got := Status(" Active "); got != "active" {
		t.Errorf("Status = %q", got)
	}
	if got := Role(" ADMIN"); got != "admin" {
		t.Errorf("Role = %q", got)
	}
}

func TestQueryParam(t *testing.T) {
	if got := QueryParam("  03 "); got != "03" {
		t.Errorf("QueryParam = %q, want trimmed with case kept", got)
	}
}
