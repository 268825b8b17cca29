// Package drum holds the byte rotation used to decode the spinning drum tiles.
package drum

import "math/bits"

// RotateRight rotates x right by n bits. n is taken modulo 8, so a negative n rotates left.
func RotateRight(x uint8, n int) uint8 {
	return bits.RotateLeft8(x, -n)
}

// Rotations returns x rotated right by 0, 1, ..., steps-1.
func Rotations(x uint8, steps int) []uint8 {
	if steps <= 0 {
		return nil
	}
	out := make([]uint8, steps)
	for i := range out {
		out[i] = RotateRight(x, i)
	}
	return out
}
