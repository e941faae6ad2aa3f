package scte35

// spliceNull is the no-op heartbeat command: an empty body.
type spliceNull struct{}

func (spliceNull) commandType() uint32     { return SpliceNullType }
func (spliceNull) commandLength() int      { return 0 }
func (spliceNull) encode() ([]byte, error) { return nil, nil }
