package messages

import "fmt"

// Encoding selects how messages are framed for a client.
type Encoding uint8

const (
	// EncodingJSON sends JSON envelopes and payloads in websocket text frames.
	EncodingJSON Encoding = iota
	// EncodingBinary sends zstd compressed flatbuffer envelopes in websocket
	// binary frames. Game updates are flatbuffers as well.
	EncodingBinary
)

func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingBinary:
		return "binary"
	}
	return "unknown"
}

// ParseEncoding parses an encoding name. The empty string means EncodingJSON.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "", "json":
		return EncodingJSON, nil
	case "binary":
		return EncodingBinary, nil
	default:
		return EncodingJSON, fmt.Errorf("unknown encoding: %s", name)
	}
}
