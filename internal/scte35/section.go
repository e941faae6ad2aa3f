// Package scte35 encodes SCTE-35 splice_info_section binary structures:
// splice_null, splice_insert, and time_signal commands plus an opaque
// descriptor loop, terminated with a CRC-32/MPEG-2. Decoding is out of
// scope; callers that need to verify round-trip behavior do so with their
// own minimal reader.
package scte35

import "fmt"

const (
	tableID = 0xFC

	// tier is always "no tier restriction" — this encoder never segments
	// splice events by receiver tier.
	tier = 0xFFF

	SpliceNullType   uint32 = 0x00
	SpliceInsertType uint32 = 0x05
	TimeSignalType   uint32 = 0x06
)

// command is the interface satisfied by spliceNull, SpliceInsert, and
// TimeSignal.
type command interface {
	commandType() uint32
	commandLength() int
	encode() ([]byte, error)
}

// Section is a splice_info_section ready to serialize. PTSAdjustment is
// left at zero by every caller in this generator; it exists because the
// wire format carries it, not because anything here sets it.
type Section struct {
	PTSAdjustment uint64
	Command       command
	Descriptors   [][]byte // pre-framed tag+length+body runs
}

// NewNullSection builds a splice_null section, used as the generator's
// heartbeat and as the periodic fallback when nothing else was sent.
func NewNullSection() *Section {
	return &Section{Command: spliceNull{}}
}

// Encode serializes the section, computing section_length,
// descriptor_loop_length, and the trailing CRC-32/MPEG-2.
func (s *Section) Encode() ([]byte, error) {
	cmd := s.Command
	if cmd == nil {
		cmd = spliceNull{}
	}

	descLen := 0
	for _, d := range s.Descriptors {
		if !validDescriptor(d) {
			return nil, fmt.Errorf("scte35: malformed descriptor run, %d bytes", len(d))
		}
		descLen += len(d)
	}

	sectionLen := sectionLength(cmd, descLen)
	totalLen := 3 + sectionLen // table_id + section_length field itself + section data

	w := newBitWriter(totalLen)
	w.putUint32(8, tableID)
	w.putBit(false) // section_syntax_indicator
	w.putBit(false) // private_indicator
	w.putUint32(2, 0x3)
	w.putUint32(12, uint32(sectionLen))

	w.putUint32(8, 0) // protocol_version
	w.putBit(false)   // encrypted_packet
	w.putUint32(6, 0) // encryption_algorithm
	w.putUint64(33, s.PTSAdjustment)
	w.putUint32(8, 0) // cw_index
	w.putUint32(12, tier)

	w.putUint32(12, uint32(cmd.commandLength()))
	w.putUint32(8, cmd.commandType())
	cmdBytes, err := cmd.encode()
	if err != nil {
		return nil, fmt.Errorf("scte35: encoding command: %w", err)
	}
	w.putBytes(cmdBytes)

	w.putUint32(16, uint32(descLen))
	for _, d := range s.Descriptors {
		w.putBytes(d)
	}
	w.putUint32(32, 0) // CRC_32 placeholder, overwritten below

	section, err := w.finish()
	if err != nil {
		return nil, err
	}

	crc := crc32MPEG2(section[:totalLen-4])
	section[totalLen-4] = byte(crc >> 24)
	section[totalLen-3] = byte(crc >> 16)
	section[totalLen-2] = byte(crc >> 8)
	section[totalLen-1] = byte(crc)

	return section, nil
}

func sectionLength(cmd command, descLen int) int {
	bits := 8  // protocol_version
	bits += 1  // encrypted_packet
	bits += 6  // encryption_algorithm
	bits += 33 // pts_adjustment
	bits += 8  // cw_index
	bits += 12 // tier
	bits += 12 // splice_command_length
	bits += 8  // splice_command_type
	bits += cmd.commandLength() * 8
	bits += 16 // descriptor_loop_length
	bits += descLen * 8
	bits += 32 // CRC_32
	return bits / 8
}
