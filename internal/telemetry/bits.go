package telemetry

// window16 extracts a big-endian bit window from two payload bytes:
// assemble hi/lo into a 16-bit intermediate, then shift off the low
// bits that are not part of the field. The shift doubles as the mask
// for top-aligned windows.
func window16(hi, lo byte, width uint) uint16 {
	return (uint16(hi)<<8 | uint16(lo)) >> (16 - width)
}

// signExtend interprets raw as a two's-complement value of the declared
// width, not the byte width, replicating the sign bit upward.
func signExtend(raw uint16, width uint) int16 {
	if raw&(1<<(width-1)) != 0 {
		return int16(int32(raw) - (1 << width))
	}
	return int16(raw)
}
