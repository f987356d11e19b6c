package qrcode

import (
	"fmt"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

const quietZone = 4

// SVG encodes content as a QR code and draws it as an SVG document, one
// rect per dark module. size is the rendered width and height in pixels.
func SVG(content string, size int) ([]byte, error) {
	code, err := qr.New(content, qr.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code.DisableBorder = true

	bitmap := code.Bitmap()
	n := len(bitmap) + 2*quietZone

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		size, size, n, n)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#fff"/>`, n, n)
	b.WriteString(`<path fill="#000" d="`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, "M%d %dh1v1h-1z", x+quietZone, y+quietZone)
			}
		}
	}
	b.WriteString(`"/></svg>`)

	return []byte(b.String()), nil
}
