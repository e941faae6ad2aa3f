package scte35

// TimeSignal carries only a splice_time() — no component loop, no
// break_duration. Descriptors that accompany it are attached at the
// section level, not here.
type TimeSignal struct {
	PTSTime *uint64 // nil => time_specified_flag = 0
}

func (cmd *TimeSignal) commandType() uint32 { return TimeSignalType }

func (cmd *TimeSignal) commandLength() int {
	if cmd.PTSTime != nil {
		return 5
	}
	return 1
}

func (cmd *TimeSignal) encode() ([]byte, error) {
	w := newBitWriter(cmd.commandLength())
	if cmd.PTSTime != nil {
		w.putBit(true)
		w.putUint32(6, 0x3F) // reserved
		w.putUint64(33, *cmd.PTSTime)
	} else {
		w.putBit(false)
		w.putUint32(7, 0x7F) // reserved
	}
	return w.finish()
}
