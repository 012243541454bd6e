package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Event streams use canonical CBOR with integer map keys so captures
// stay compact and byte-stable across writers.
var (
	eventEnc = mustEncMode()
	eventDec = mustDecMode()
)

// mustEncMode builds the encoder mode for event streams. RFC3339Nano
// keeps nanosecond timestamp precision across round trips.
func mustEncMode() cbor.EncMode {
	m, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: building CBOR encoder mode: %v", err))
	}
	return m
}

// mustDecMode builds the decoder mode. Lenient about indefinite lengths
// and duplicate keys so captures from older writers still read.
func mustDecMode() cbor.DecMode {
	m, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: building CBOR decoder mode: %v", err))
	}
	return m
}

// EncodeEvent encodes a single Event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEnc.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDec.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a streaming event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEnc.NewEncoder(w)
}

// NewDecoder creates a streaming event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDec.NewDecoder(r)
}
