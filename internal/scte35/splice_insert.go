package scte35

// SpliceInsert signals a splice point. program_splice_flag is always sent
// as 1: the component-splice variant (a per-component loop of PTS values)
// is not represented here, matching the narrowed scope this encoder
// targets. AvailNum and AvailsExpected are always encoded as zero; callers
// that need avail counting track it upstream of this package.
type SpliceInsert struct {
	EventID         uint32
	Cancel          bool
	OutOfNetwork    bool
	PTSTime         *uint64 // nil => splice_immediate_flag = 1
	Duration        *uint64 // nil => duration_flag = 0
	AutoReturn      bool
	UniqueProgramID uint16
}

func (cmd *SpliceInsert) commandType() uint32 { return SpliceInsertType }

func (cmd *SpliceInsert) commandLength() int {
	bits := 32 + 1 + 7 // event_id + cancel + reserved
	if !cmd.Cancel {
		bits += 1 + 1 + 1 + 1 + 4 // out_of_network + program_splice + duration_flag + immediate + reserved
		if cmd.PTSTime != nil {
			bits += 1 + 6 + 33 // time_specified_flag + reserved + pts_time
		}
		if cmd.Duration != nil {
			bits += 1 + 6 + 33 // auto_return + reserved + duration
		}
		bits += 16 + 8 + 8 // unique_program_id + avail_num + avails_expected
	}
	return bits / 8
}

func (cmd *SpliceInsert) encode() ([]byte, error) {
	w := newBitWriter(cmd.commandLength())

	w.putUint32(32, cmd.EventID)
	w.putBit(cmd.Cancel)
	w.putUint32(7, 0x7F) // reserved

	if !cmd.Cancel {
		w.putBit(cmd.OutOfNetwork)
		w.putBit(true) // program_splice_flag
		w.putBit(cmd.Duration != nil)
		w.putBit(cmd.PTSTime == nil) // splice_immediate_flag
		w.putUint32(4, 0x0F)         // reserved

		if cmd.PTSTime != nil {
			w.putBit(true)       // time_specified_flag
			w.putUint32(6, 0x3F) // reserved
			w.putUint64(33, *cmd.PTSTime)
		}

		if cmd.Duration != nil {
			w.putBit(cmd.AutoReturn)
			w.putUint32(6, 0x3F) // reserved
			w.putUint64(33, *cmd.Duration)
		}

		w.putUint32(16, uint32(cmd.UniqueProgramID))
		w.putUint32(8, 0) // avail_num
		w.putUint32(8, 0) // avails_expected
	}

	return w.finish()
}
