package rvfi

import (
	"encoding/json"
	"io"
)

// JSONLSink writes one JSON object per line, one per retired Record, the
// interchange format RVFI-consuming tools (replay harnesses, golden-model
// comparators) expect.
type JSONLSink struct {
	enc *json.Encoder
}

// NewJSONLSink wraps w. Each Emit call writes exactly one line.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{enc: json.NewEncoder(w)}
}

// Emit implements Sink. Encoding errors are swallowed rather than
// propagated, since a broken trace stream should never halt the core it
// is only observing.
func (s *JSONLSink) Emit(r Record) {
	_ = s.enc.Encode(r)
}
