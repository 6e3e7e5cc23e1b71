package bus

// Write records a single bus store: the target address, the value written
// and the access size in bits (8 or 16).
type Write struct {
	Addr uint32
	Val  uint16
	Size int
}

// Recorder is a Bus for tests. Every store is appended to Writes in order.
// Reads come from the Seq map first, one queued value per read, then fall
// back to the Reads map. The default of zero reads as "ready" for every
// status poll the device packages perform.
type Recorder struct {
	Writes []Write
	Reads  map[uint32]uint16
	Seq    map[uint32][]uint16
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Reads: make(map[uint32]uint16),
		Seq:   make(map[uint32][]uint16),
	}
}

func (r *Recorder) read(addr uint32) uint16 {
	if seq := r.Seq[addr]; len(seq) > 0 {
		val := seq[0]
		r.Seq[addr] = seq[1:]
		return val
	}
	return r.Reads[addr]
}

func (r *Recorder) Read8(addr uint32) uint8 {
	return uint8(r.read(addr))
}

func (r *Recorder) Write8(addr uint32, val uint8) {
	r.Writes = append(r.Writes, Write{Addr: addr, Val: uint16(val), Size: 8})
}

func (r *Recorder) Read16(addr uint32) uint16 {
	return r.read(addr)
}

func (r *Recorder) Write16(addr uint32, val uint16) {
	r.Writes = append(r.Writes, Write{Addr: addr, Val: val, Size: 16})
}

// Reset discards all recorded writes.
func (r *Recorder) Reset() {
	r.Writes = r.Writes[:0]
}
