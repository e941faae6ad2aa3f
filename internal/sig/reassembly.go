package sig

// PushEvent appends one reassembly fragment. A Start fragment arriving
// while a previous run is still pending forces a best-effort flush of
// whatever was accumulated so far, so one interrupted event can never
// wedge the next one open. The accumulator flushes once End arrives (or
// this forced flush fires); a fragment with neither Start nor End that
// arrives on an empty accumulator is flushed on its own.
func (g *Generator) PushEvent(in Input) error {
	wasEmpty := len(g.accum) == 0

	if in.Start && !wasEmpty {
		g.log.Warn("forcing flush of incomplete event before new start")
		if err := g.flush(); err != nil {
			return err
		}
		wasEmpty = true
	}

	g.accum = append(g.accum, in)

	if (!wasEmpty || in.Start) && !in.End {
		g.log.Debug("waiting for next fragment")
		return nil
	}

	return g.flush()
}

// ClearScheduled drops the scheduled form of every message currently in
// the pending queue, leaving only each one's immediate fallback. This
// replaces the legacy protocol's overloaded "push an empty event" signal
// with an explicit operation.
func (g *Generator) ClearScheduled() {
	for e := g.pending.Front(); e != nil; e = e.Next() {
		e.Value.(*message).scheduled = nil
	}
}

// flush synthesizes (or refreshes) a section from the accumulated
// fragments, keyed off the first fragment's command type, and always
// drains the accumulator afterward — including when the command type is
// missing or unsupported, so a malformed run can never wedge reassembly.
func (g *Generator) flush() error {
	defer func() { g.accum = nil }()

	if len(g.accum) == 0 {
		return nil
	}

	head := g.accum[0]
	if !head.HasCommandType {
		g.log.Warn("no command type found in first fragment")
		return nil
	}

	switch head.CommandType {
	case CommandInsert:
		return g.synthesizeInsert(head)
	case CommandNull:
		g.buildNullSection()
		return nil
	case CommandTimeSignal:
		return g.synthesizeTimeSignal(head, g.accum[1:])
	default:
		g.log.Warn("unimplemented command type", "type", head.CommandType)
		return nil
	}
}
