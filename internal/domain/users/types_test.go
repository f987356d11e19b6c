package users

import "testing"

func TestPasswordCompare(t *testing.T) {
	var p password
	if err := p.Set("correct horse"); err != nil {
		t.Fatal(err)
	}
	if err := p.Compare("correct horse"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}
	if err := p.Compare("battery staple"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	a, b := HashToken("abc"), HashToken("abc")
	if a != b || len(a) != 64 {
		t.Errorf("HashToken not stable hex: %q %q", a, b)
	}
	if HashToken("abd") == a {
		t.Error("different tokens collide")
	}
}

func TestFullName(t *testing.T) {
	u := User{FirstName: "Clara", LastName: "Schumann"}
	if got := u.FullName(); got != "Clara Schumann" {
		t.Errorf("FullName() = %q", got)
	}
	u.LastName = ""
	if got := u.FullName(); got != "Clara" {
		t.Errorf("FullName() = %q", got)
	}
}
