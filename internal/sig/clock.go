package sig

const (
	// clockScale converts a 27 MHz host clock value into 90 kHz MPEG
	// PTS/PCR units (27_000_000 / 90_000).
	clockScale = 300
	// pow2_33 is the modulus every 33-bit PTS/PCR value wraps around.
	pow2_33 = 1 << 33
)

// ToMPEGPTS converts a host clock reading (27 MHz ticks) into a 33-bit
// 90 kHz PTS value, wrapping around pow2_33 the same way the MPEG-2
// systems clock does.
func ToMPEGPTS(hostClock uint64) uint64 {
	return (hostClock / clockScale) % pow2_33
}
