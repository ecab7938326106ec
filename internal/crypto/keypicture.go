package crypto

import (
	"crypto/sha256"
	"strings"
)

// Key picture grid dimensions, same proportions as OpenSSH randomart.
const (
	pictureWidth  = 17
	pictureHeight = 9
)

// pictureGlyphs maps visit counts to characters, darkest last.
var pictureGlyphs = []byte(" .o+=*BOX@%&#/^")

// KeyPicture renders a deterministic visual fingerprint of a public key
// for out-of-band human verification. It walks the SHA-256 digest with
// the drunken-bishop algorithm: each pair of bits moves diagonally across
// a grid and cells are shaded by visit count.
func KeyPicture(der []byte) string {
	sum := sha256.Sum256(der)

	grid := make([]int, pictureWidth*pictureHeight)
	x, y := pictureWidth/2, pictureHeight/2
	start := y*pictureWidth + x

	for _, b := range sum {
		for step := 0; step < 4; step++ {
			if b&0x1 != 0 {
				x++
			} else {
				x--
			}
			if b&0x2 != 0 {
				y++
			} else {
				y--
			}
			x = clamp(x, 0, pictureWidth-1)
			y = clamp(y, 0, pictureHeight-1)
			grid[y*pictureWidth+x]++
			b >>= 2
		}
	}
	end := y*pictureWidth + x

	var sb strings.Builder
	sb.WriteString("+" + strings.Repeat("-", pictureWidth) + "+\n")
	for row := 0; row < pictureHeight; row++ {
		sb.WriteByte('|')
		for col := 0; col < pictureWidth; col++ {
			idx := row*pictureWidth + col
			switch idx {
			case start:
				sb.WriteByte('S')
			case end:
				sb.WriteByte('E')
			default:
				n := grid[idx]
				if n >= len(pictureGlyphs) {
					n = len(pictureGlyphs) - 1
				}
				sb.WriteByte(pictureGlyphs[n])
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", pictureWidth) + "+")
	return sb.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
