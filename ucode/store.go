package ucode

// Addresses of the fixed slots reserved outside the opcode windows: halt
// sits one below panic so a microcode author can distinguish
// "ran off the end of a routine" from "decoder/mapping produced garbage".
const (
	HaltAddr  uint8 = 0xFE
	PanicAddr uint8 = 0xFF
)

// Entry pairs a micro-address with the word stored there. Image.go builds
// the store from a slice of these, grouped by macro-routine for readability
// the way an assembly listing would be.
type Entry struct {
	Addr uint8
	Word Word
}

// Store is the immutable 256-entry microcode ROM. Read is combinational:
// Lookup returns the word for the micro-PC driving this tick, and that is
// the word whose fields control datapath behavior this same tick.
type Store struct {
	words [256]Word
}

// panicWord is what every unpopulated slot resolves to: a self-loop with no
// side effects, so mapping-table gaps fail loudly rather than silently
// falling into an adjacent routine.
var panicWord = Word{
	JmpType:  JmpDirect,
	CondTest: CondTrue,
	Target:   PanicAddr,
}

var haltWord = Word{
	JmpType:  JmpDirect,
	CondTest: CondTrue,
	Target:   HaltAddr,
}

// NewStore builds an immutable store from a deterministic list of entries.
// A build-time mismatch — a duplicate address, or an address used twice
// with different words — is rejected rather than silently resolved.
func NewStore(entries []Entry) (*Store, error) {
	s := &Store{}
	for i := range s.words {
		s.words[i] = panicWord
	}
	s.words[HaltAddr] = haltWord

	seen := make(map[uint8]bool, len(entries))
	for _, e := range entries {
		if seen[e.Addr] {
			return nil, &DuplicateAddrError{Addr: e.Addr}
		}
		seen[e.Addr] = true
		s.words[e.Addr] = e.Word
	}
	return s, nil
}

// DuplicateAddrError reports a microcode image that assigns the same
// micro-PC to two different routine entries.
type DuplicateAddrError struct {
	Addr uint8
}

func (e *DuplicateAddrError) Error() string {
	return "ucode: duplicate micro-address in image: " + hexByte(e.Addr)
}

func hexByte(b uint8) string {
	const digits = "0123456789abcdef"
	return "0x" + string([]byte{digits[b>>4], digits[b&0xf]})
}

// Lookup returns the word stored at upc. Every uint8 value is a valid
// index, so this never fails.
func (s *Store) Lookup(upc uint8) Word {
	return s.words[upc]
}
