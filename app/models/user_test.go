package models

import "testing"

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("100001", "Test User", "test@example.com", "secret123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role != ROLE_USER || u.Status != STATUS_ACTIVE {
		t.Fatalf("unexpected defaults: %+v", u)
	}
	if u.Password == "secret123" {
		t.Fatal("password must be stored hashed")
	}
	if !u.CheckPassword("secret123") {
		t.Fatal("hashed password must verify")
	}
	if u.CheckPassword("wrong") {
		t.Fatal("wrong password must not verify")
	}
}

func TestCreateUserValidation(t *testing.T) {
	if _, err := CreateUser("100001", "Test", "not-an-email", "secret123"); err == nil {
		t.Fatal("invalid email must be rejected")
	}
	if _, err := CreateUser("abc", "Test", "test@example.com", "secret123"); err == nil {
		t.Fatal("non-numeric sid must be rejected")
	}
	if _, err := CreateUser("100001", "Test", "test@example.com", "short"); err == nil {
		t.Fatal("short password must be rejected")
	}
}

func TestUserSetPassword(t *testing.T) {
	u := &User{}
	if err := u.SetPassword("newsecret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !u.CheckPassword("newsecret") {
		t.Fatal("new password must verify")
	}
}

func TestUserTouchLastLogin(t *testing.T) {
	u := &User{}
	u.TouchLastLogin()
	if u.LastLoginAt == nil {
		t.Fatal("last login must be stamped")
	}
}
