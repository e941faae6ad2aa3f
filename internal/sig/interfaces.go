package sig

// Emitter is the collaborator boundary: it accepts finished PSI sections
// for muxing and receives the output flow definition whenever the
// emission interval changes. Buffer allocation is not modeled as a
// separate capability — the wire encoder in internal/scte35 already owns
// its own byte slices, and pool/allocator internals are out of scope
// here.
type Emitter interface {
	// Emit hands a finished, CRC-terminated PSI section to the mux,
	// scheduled for the muxing date crSys.
	Emit(section []byte, crSys uint64) error
	// PublishFlowDef announces (or re-announces) the output flow
	// definition for the SCTE-35 elementary stream.
	PublishFlowDef(def OutputFlowDef) error
}
