package qrcode

import (
	"bytes"
	"strings"
	"testing"
)

func TestSVG(t *testing.T) {
	out, err := SVG("https://taktivent.test/e/Xk9aPq2L", 256)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("<svg ")) || !bytes.HasSuffix(out, []byte("</svg>")) {
		t.Fatalf("not an svg document: %.60s", out)
	}
	if !strings.Contains(string(out), `width="256"`) {
		t.Error("size not applied")
	}
	if !strings.Contains(string(out), "h1v1h-1z") {
		t.Error("no modules drawn")
	}
}

func TestSVGDeterministic(t *testing.T) {
	a, _ := SVG("same", 100)
	b, _ := SVG("same", 100)
	if !bytes.Equal(a, b) {
		t.Error("same content rendered differently")
	}
}

func TestSVGRejectsOversizedContent(t *testing.T) {
	if _, err := SVG(strings.Repeat("x", 5000), 100); err == nil {
		t.Error("content beyond QR capacity accepted")
	}
}
