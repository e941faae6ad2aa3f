package sig

import (
	"container/list"
	"fmt"
	"log/slog"
)

const (
	// hostClockFreq is the 27 MHz reference clock (UCLOCK_FREQ) every
	// PTSProg/Duration/PTSSys value on Input is expressed in.
	hostClockFreq = 27_000_000
	// tbRatePSI is the T-STD transport-buffer rate for PSI tables.
	tbRatePSI = 125_000
	// tsPacketPayload is the payload carried by one 188-byte TS packet
	// once the 4-byte header and a 1-byte pointer_field are accounted
	// for.
	tsPacketPayload = 183

	inputFormatTag  = "void.scte35."
	outputFormatTag = "block.mpegtspsi.mpegtsscte35."
)

// Generator reassembles splice events, synthesizes SCTE-35 PSI sections
// and emits them on the schedule driven by Tick. It is single-threaded:
// the collaborator is responsible for calling PushEvent, ClearScheduled,
// SetFlowDef, SetInterval, and Tick from one goroutine at a time.
type Generator struct {
	log  *slog.Logger
	emit Emitter

	flowDefSet    bool
	interval      uint64
	lastEmitCrSys uint64
	nullSection   []byte

	pending *list.List // *message, in insertion order
	accum   []Input
}

// NewGenerator creates a Generator that emits through emit. If log is
// nil, slog.Default() is used.
func NewGenerator(emit Emitter, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		log:     log.With("component", "scte35-generator"),
		emit:    emit,
		pending: list.New(),
	}
}

// SetFlowDef validates the input flow definition's format tag and records
// that a flow def is set. The first successful call builds the cached null
// section and publishes the output flow definition if the interval is
// already non-zero; later calls change nothing.
func (g *Generator) SetFlowDef(formatTag string) error {
	if formatTag != inputFormatTag {
		return fmt.Errorf("sig: flow def format %q, want %q", formatTag, inputFormatTag)
	}

	firstTime := !g.flowDefSet
	g.flowDefSet = true

	if firstTime {
		g.buildNullSection()
		return g.publishFlowDef()
	}
	return nil
}

// Interval returns the current PSI section emission interval in 27 MHz
// clock ticks. Zero disables SCTE-35 emission.
func (g *Generator) Interval() uint64 { return g.interval }

// SetInterval changes the emission interval and, when the new interval is
// non-zero, republishes the output flow definition.
func (g *Generator) SetInterval(interval uint64) error {
	g.interval = interval
	return g.publishFlowDef()
}

func (g *Generator) publishFlowDef() error {
	if g.interval == 0 {
		return nil
	}
	def := OutputFlowDef{
		PSISectionInterval: g.interval,
		OctetRate:          tsPacketPayload * hostClockFreq / g.interval,
		TBRate:             tbRatePSI,
	}
	if err := g.emit.PublishFlowDef(def); err != nil {
		return fmt.Errorf("sig: publishing flow def: %w", err)
	}
	return nil
}

// Tick is PREPARE: given the mux's current date and the latency before
// the next packet actually reaches the wire, it walks the pending queue in
// order, emitting the immediate form of every message whose deadline has
// passed (and removing it) and the scheduled form of every message still
// due, falling back to the cached null section if nothing else was sent
// this round. latency is accepted to match the
// collaborator's calling convention; this generator does not currently
// need it since cr_sys is already the date the section must be ready by.
func (g *Generator) Tick(crSys uint64, latency uint64) error {
	if !g.flowDefSet || g.nullSection == nil || g.interval == 0 ||
		g.lastEmitCrSys+g.interval > crSys {
		return nil
	}

	handled := false
	var next *list.Element
	for e := g.pending.Front(); e != nil; e = next {
		next = e.Next()
		msg := e.Value.(*message)

		if msg.crSys < crSys {
			if msg.immediate != nil {
				g.log.Info("sending an immediate event")
				if err := g.send(msg.immediate, crSys); err != nil {
					return err
				}
				handled = true
			} else {
				g.log.Info("event expired")
			}
			g.pending.Remove(e)
			continue
		}

		g.log.Debug("sending an event")
		msg.immediate = nil // scheduled form supersedes it now
		if msg.scheduled != nil {
			if err := g.send(msg.scheduled, crSys); err != nil {
				return err
			}
			handled = true
		}
	}

	if !handled {
		if err := g.send(g.nullSection, crSys); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) send(section []byte, crSys uint64) error {
	if err := g.emit.Emit(section, crSys); err != nil {
		return fmt.Errorf("sig: emitting section: %w", err)
	}
	g.lastEmitCrSys = crSys
	return nil
}

// Close releases every pending message, the reassembly accumulator, and
// the cached flow state, in that order.
func (g *Generator) Close() {
	g.pending.Init()
	g.accum = nil
	g.nullSection = nil
	g.flowDefSet = false
}
