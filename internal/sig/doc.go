// Package sig implements a SCTE-35 Splice Information Generator: it
// reassembles fragmented splice events from a collaborator, synthesizes
// splice_info_section PSI sections, and emits them on a periodic schedule
// driven by the collaborator's own mux clock.
package sig
