package auth

import "testing"

func TestSession_IsGuest(t *testing.T) {
	if !(Session{Role: RoleGuest}).IsGuest() {
		t.Fatalf("expected guest")
	}
	if (Session{Role: RoleCandidate}).IsGuest() {
		t.Fatalf("did not expect guest")
	}
}

func TestSession_HasRole(t *testing.T) {
	tests := []struct {
		name  string
		role  Role
		allow []Role
		want  bool
	}{
		{"candidate on candidate route", RoleCandidate, []Role{RoleCandidate}, true},
		{"candidate on employer route", RoleCandidate, []Role{RoleEmployer}, false},
		{"employer on mixed route", RoleEmployer, []Role{RoleCandidate, RoleEmployer}, true},
		{"admin passes everything", RoleAdmin, []Role{RoleEmployer}, true},
		{"guest denied", RoleGuest, []Role{RoleCandidate}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Session{Role: tt.role}).HasRole(tt.allow...); got != tt.want {
				t.Fatalf("HasRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("  Employer ")
	if err != nil || r != RoleEmployer {
		t.Fatalf("ParseRole() = %q, %v", r, err)
	}
	if _, err := ParseRole("guest"); err == nil {
		t.Fatal("guest is not assignable")
	}
}
