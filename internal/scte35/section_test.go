package scte35

import (
	"encoding/hex"
	"testing"
)

// testBitReader is a minimal, test-only MSB-first bit reader used to verify
// round-trip properties. It is not part of the package's public surface:
// this encoder never ships a decoder.
type testBitReader struct {
	data   []byte
	bitPos int
}

func (r *testBitReader) readBit() bool {
	byteIdx := r.bitPos / 8
	bitIdx := 7 - (r.bitPos % 8)
	r.bitPos++
	return (r.data[byteIdx]>>uint(bitIdx))&1 == 1
}

func (r *testBitReader) readUint64(n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		if r.readBit() {
			v |= 1
		}
	}
	return v
}

func (r *testBitReader) skip(n int) { r.bitPos += n }

func TestNullSectionGoldenVector(t *testing.T) {
	want := "fc301100000000000000fff0000000007a4fbfff"
	got, err := NewNullSection().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if hex.EncodeToString(got) != want {
		t.Fatalf("got %x, want %s", got, want)
	}
}

func TestSpliceInsertImmediateGoldenVector(t *testing.T) {
	want := "fc301b00000000000000fff00a05123456787fdf004200000000b121154c"
	s := &Section{Command: &SpliceInsert{
		EventID:         0x12345678,
		OutOfNetwork:    true,
		UniqueProgramID: 0x0042,
	}}
	got, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if hex.EncodeToString(got) != want {
		t.Fatalf("got %x, want %s", got, want)
	}
}

func TestSpliceInsertScheduledAndImmediateForms(t *testing.T) {
	pts := uint64(9_000_000)
	dur := uint64(2_700_000)

	sched := &Section{Command: &SpliceInsert{
		EventID:         1,
		OutOfNetwork:    true,
		PTSTime:         &pts,
		Duration:        &dur,
		AutoReturn:      true,
		UniqueProgramID: 0,
	}}
	gotSched, err := sched.Encode()
	if err != nil {
		t.Fatalf("Encode scheduled: %v", err)
	}
	wantSched := "fc302500000000000000fff01405000000017feffe00895440fe002932e0000000000000011e1743"
	if hex.EncodeToString(gotSched) != wantSched {
		t.Fatalf("scheduled form: got %x, want %s", gotSched, wantSched)
	}

	imm := &Section{Command: &SpliceInsert{
		EventID:         1,
		OutOfNetwork:    true,
		Duration:        &dur,
		AutoReturn:      true,
		UniqueProgramID: 0,
	}}
	gotImm, err := imm.Encode()
	if err != nil {
		t.Fatalf("Encode immediate: %v", err)
	}
	wantImm := "fc302000000000000000fff00f05000000017ffffe002932e00000000000000262ac89"
	if hex.EncodeToString(gotImm) != wantImm {
		t.Fatalf("immediate form: got %x, want %s", gotImm, wantImm)
	}
}

func TestTimeSignalWithDescriptorGoldenVectors(t *testing.T) {
	desc := append([]byte{0x02, 10}, make([]byte, 10)...)
	for i := range desc[2:] {
		desc[2+i] = byte(i)
	}

	pts := uint64(90_000_000)
	sched := &Section{Command: &TimeSignal{PTSTime: &pts}, Descriptors: [][]byte{desc}}
	gotSched, err := sched.Encode()
	if err != nil {
		t.Fatalf("Encode scheduled: %v", err)
	}
	wantSched := "fc302200000000000000fff00506fe055d4a80000c020a00010203040506070809c6b4bef2"
	if hex.EncodeToString(gotSched) != wantSched {
		t.Fatalf("scheduled form: got %x, want %s", gotSched, wantSched)
	}

	imm := &Section{Command: &TimeSignal{}, Descriptors: [][]byte{desc}}
	gotImm, err := imm.Encode()
	if err != nil {
		t.Fatalf("Encode immediate: %v", err)
	}
	wantImm := "fc301e00000000000000fff001067f000c020a00010203040506070809be442ac9"
	if hex.EncodeToString(gotImm) != wantImm {
		t.Fatalf("immediate form: got %x, want %s", gotImm, wantImm)
	}
}

// TestSpliceInsertRoundTrip checks that the fields a downstream decoder
// cares about (event id, out-of-network, pts_time, duration) can be
// recovered byte-for-byte from the encoded command body.
func TestSpliceInsertRoundTrip(t *testing.T) {
	pts := uint64(123456789)
	dur := uint64(2_700_000)
	cmd := &SpliceInsert{
		EventID:         0xAABBCCDD,
		OutOfNetwork:    true,
		PTSTime:         &pts,
		Duration:        &dur,
		AutoReturn:      true,
		UniqueProgramID: 7,
	}
	body, err := cmd.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	r := &testBitReader{data: body}
	gotEventID := uint32(r.readUint64(32))
	cancel := r.readBit()
	r.skip(7)
	gotOON := r.readBit()
	programSplice := r.readBit()
	durationFlag := r.readBit()
	immediate := r.readBit()
	r.skip(4)

	if gotEventID != cmd.EventID {
		t.Errorf("event id = %#x, want %#x", gotEventID, cmd.EventID)
	}
	if cancel {
		t.Errorf("cancel = true, want false")
	}
	if gotOON != cmd.OutOfNetwork {
		t.Errorf("out_of_network = %v, want %v", gotOON, cmd.OutOfNetwork)
	}
	if !programSplice {
		t.Errorf("program_splice_flag = false, want true")
	}
	if !durationFlag {
		t.Errorf("duration_flag = false, want true")
	}
	if immediate {
		t.Errorf("splice_immediate_flag = true, want false (pts_time present)")
	}

	timeSpecified := r.readBit()
	if !timeSpecified {
		t.Fatalf("time_specified_flag = false, want true")
	}
	r.skip(6)
	gotPTS := r.readUint64(33)
	if gotPTS != pts {
		t.Errorf("pts_time = %d, want %d", gotPTS, pts)
	}

	autoReturn := r.readBit()
	r.skip(6)
	gotDur := r.readUint64(33)
	if !autoReturn {
		t.Errorf("auto_return = false, want true")
	}
	if gotDur != dur {
		t.Errorf("duration = %d, want %d", gotDur, dur)
	}
}

func TestEncodeRejectsMalformedDescriptor(t *testing.T) {
	s := &Section{Command: &TimeSignal{}, Descriptors: [][]byte{{0x02}}}
	if _, err := s.Encode(); err == nil {
		t.Fatal("expected error for malformed descriptor run, got nil")
	}
}
