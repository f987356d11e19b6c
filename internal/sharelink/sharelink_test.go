package sharelink

import (
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	c, err := New("pepper", "https://taktivent.test/")
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{1, 2, 999, 1 << 40} {
		code, err := c.Encode(id)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) < minCodeLength {
			t.Errorf("code %q shorter than %d", code, minCodeLength)
		}
		got, err := c.Decode(code)
		if err != nil || got != id {
			t.Errorf("Decode(%q) = %d, %v; want %d", code, got, err, id)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c, _ := New("pepper", "https://taktivent.test")
	for _, code := range []string{"", "!!!", "zzzzzzzzzzzzzzzzzzzz"} {
		if _, err := c.Decode(code); err == nil {
			t.Errorf("Decode(%q) accepted", code)
		}
	}
}

func TestSaltChangesCodes(t *testing.T) {
	a, _ := New("one", "")
	b, _ := New("two", "")
	ca, _ := a.Encode(5)
	cb, _ := b.Encode(5)
	if ca == cb {
		t.Error("different salts produced the same code")
	}
}

func TestEventURL(t *testing.T) {
	c, _ := New("pepper", "https://taktivent.test/")
	u, err := c.EventURL(3)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "https://taktivent.test/e/") {
		t.Errorf("EventURL = %q", u)
	}
}
