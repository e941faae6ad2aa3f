package scte35

// Descriptor content is built by the collaborator that owns segmentation
// semantics; this package only ever sees the already-encoded byte run
// (splice_descriptor_tag, descriptor_length, then descriptor_length bytes
// of opaque content) and checks that the framing is internally consistent
// before folding it into a section.
func validDescriptor(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return int(b[1])+2 == len(b)
}

// ValidDescriptor reports whether b is a well-framed descriptor run (tag,
// length, then length bytes of content), letting a caller filter out a
// malformed descriptor before it ever reaches Section.Encode.
func ValidDescriptor(b []byte) bool {
	return validDescriptor(b)
}
