package sig

import (
	"fmt"

	"github.com/zsiec/scte35gen/internal/scte35"
)

// synthesizeInsert builds a splice_insert message. If the fragment
// carries a scheduled PTS, both a scheduled form (real pts_time) and an
// immediate fallback form (splice_immediate_flag set, no pts_time) are
// built and attached to the same message; otherwise only the immediate
// form exists.
func (g *Generator) synthesizeInsert(in Input) error {
	build := func(ptsProg *uint64) ([]byte, error) {
		cmd := &scte35.SpliceInsert{
			EventID: in.EventID,
			Cancel:  in.Cancel,
		}
		if !in.Cancel {
			cmd.OutOfNetwork = in.OutOfNetwork
			cmd.UniqueProgramID = in.UniqueProgramID
			if ptsProg != nil {
				pts := ToMPEGPTS(*ptsProg)
				cmd.PTSTime = &pts
			}
			if in.Duration != nil {
				dur := ToMPEGPTS(*in.Duration)
				cmd.Duration = &dur
				cmd.AutoReturn = in.AutoReturn
			}
		}
		return (&scte35.Section{Command: cmd}).Encode()
	}

	msg := &message{crSys: in.PTSSys}

	if in.PTSProg != nil {
		scheduled, err := build(in.PTSProg)
		if err != nil {
			return fmt.Errorf("sig: synthesizing scheduled splice_insert: %w", err)
		}
		msg.scheduled = scheduled
	}

	immediate, err := build(nil)
	if err != nil {
		return fmt.Errorf("sig: synthesizing immediate splice_insert: %w", err)
	}
	msg.immediate = immediate

	g.pending.PushBack(msg)
	g.lastEmitCrSys = 0 // force sending the table immediately
	g.log.Info("now using splice_insert command", "event_id", in.EventID)
	return nil
}

// synthesizeTimeSignal builds a time_signal message. Descriptor bytes
// come from every continuation fragment after the head; a malformed
// descriptor is logged and skipped rather than failing the whole event.
func (g *Generator) synthesizeTimeSignal(head Input, continuations []Input) error {
	var descriptors [][]byte
	for _, c := range continuations {
		if len(c.Descriptor) == 0 {
			continue
		}
		if !scte35.ValidDescriptor(c.Descriptor) {
			g.log.Warn("failed to export descriptor")
			continue
		}
		descriptors = append(descriptors, c.Descriptor)
	}

	build := func(ptsProg *uint64) ([]byte, error) {
		cmd := &scte35.TimeSignal{}
		if ptsProg != nil {
			pts := ToMPEGPTS(*ptsProg)
			cmd.PTSTime = &pts
		}
		return (&scte35.Section{Command: cmd, Descriptors: descriptors}).Encode()
	}

	msg := &message{crSys: head.PTSSys}

	if head.PTSProg != nil {
		scheduled, err := build(head.PTSProg)
		if err != nil {
			return fmt.Errorf("sig: synthesizing scheduled time_signal: %w", err)
		}
		msg.scheduled = scheduled
	}

	immediate, err := build(nil)
	if err != nil {
		return fmt.Errorf("sig: synthesizing immediate time_signal: %w", err)
	}
	msg.immediate = immediate

	g.pending.PushBack(msg)
	g.lastEmitCrSys = 0
	g.log.Info("now using time signal command")
	return nil
}

// buildNullSection (re)builds the cached heartbeat section. It is a
// no-op until the input flow definition has been set, matching the
// collaborator contract that nothing is emitted before then.
func (g *Generator) buildNullSection() {
	if !g.flowDefSet {
		return
	}
	section, err := scte35.NewNullSection().Encode()
	if err != nil {
		g.log.Error("failed to build null section", "error", err)
		return
	}
	g.nullSection = section
}
