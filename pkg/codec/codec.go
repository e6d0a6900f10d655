// Package codec defines the encode/decode capability the client uses to
// serialize events, and the standard library implementation shipped as the
// default. Users plug in an alternative by supplying any value that
// satisfies Codec through the json_codec option.
package codec

import "encoding/json"

// Codec is the capability a value must expose to serve as the client's
// event serializer.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSON is the default Codec backed by encoding/json.
type JSON struct{}

func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
