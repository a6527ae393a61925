// Package morton maps finite 2-D points to 64-bit Z-order keys.
//
// Each coordinate is scaled by a fixed-point precision factor, truncated
// toward zero to a signed 32-bit integer, and sign-flipped into an unsigned key whose numeric
// order equals the signed order. The two keys are then bit-interleaved, so
// comparing codes compares points in Z-order.
package morton

import "github.com/san-kum/grav2d/internal/geom"

// DefaultPrecision is the default fixed-point scaling factor. Larger values
// give finer spatial resolution while shrinking the representable region.
const DefaultPrecision = 512

// Interleave spreads x over the even bit positions (bit 0 included) and y
// over the odd bit positions (bit 63 included) of the result.
//
// "Interleave by Binary Magic Numbers",
// http://graphics.stanford.edu/~seander/bithacks.html#InterleaveBMN
func Interleave(x, y uint32) uint64 {
	spread := func(w uint64) uint64 {
		w = (w | w<<16) & 0x0000ffff0000ffff
		w = (w | w<<8) & 0x00ff00ff00ff00ff
		w = (w | w<<4) & 0x0f0f0f0f0f0f0f0f
		w = (w | w<<2) & 0x3333333333333333
		w = (w | w<<1) & 0x5555555555555555
		return w
	}
	return spread(uint64(x)) | spread(uint64(y))<<1
}

// Encode returns the Z-order code of p at the given precision. The second
// result is false when either scaled coordinate is NaN, infinite, or of
// magnitude 2^31 or more; such points have no representable code.
func Encode(p geom.Vec2, precision float64) (uint64, bool) {
	sx := p.X * precision
	sy := p.Y * precision
	// Strict inequality: a comparison against NaN is false, so non-finite
	// coordinates are rejected here as well.
	const lim = 1 << 31
	if !(sx < lim && sx > -lim && sy < lim && sy > -lim) {
		return 0, false
	}
	// Flipping the sign bit turns the signed order into the unsigned order,
	// with the most negative value mapping to zero.
	const sgn = 0x80000000
	x := uint32(int32(sx)) ^ sgn
	y := uint32(int32(sy)) ^ sgn
	return Interleave(x, y), true
}

// Masked applies mask to a possibly absent code. Codes at a common masked
// prefix share the quadtree cell the mask's depth describes; absent codes
// stay absent.
func Masked(code uint64, ok bool, mask uint64) (uint64, bool) {
	if !ok {
		return 0, false
	}
	return code & mask, true
}
