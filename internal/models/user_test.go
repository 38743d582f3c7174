package models

import "testing"

func TestPasswordHashing(t *testing.T) {
	u := &User{Password: "secret123"}
	if err := u.HashPassword(); err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if u.Password == "secret123" {
		t.Fatalf("password was not hashed")
	}
	if err := u.ComparePassword("secret123"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := u.ComparePassword("wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

func TestHasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	if !admin.HasPermission("manage_universities") {
		t.Fatalf("admin should have unlisted permissions by default")
	}

	restricted := &User{Role: RoleAdmin, Permissions: map[string]bool{"manage_universities": false}}
	if restricted.HasPermission("manage_universities") {
		t.Fatalf("explicit revocation should win over the role default")
	}

	agent := &User{Role: RoleAgent, Permissions: map[string]bool{"view_reports": true}}
	if !agent.HasPermission("view_reports") {
		t.Fatalf("explicit grant should win for agents")
	}
	if agent.HasPermission("manage_universities") {
		t.Fatalf("agents have no permissions by default")
	}
}
