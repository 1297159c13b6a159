package apiv1

import (
	"encoding/json"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
)

// Codec marshals plain Go message structs as JSON. It replaces connect's
// built-in "json" codec, which only accepts generated protobuf messages.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name returns the codec name used in content types.
func (Codec) Name() string {
	return "json"
}

// Marshal encodes a message.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %T", msg)
	}
	return data, nil
}

// Unmarshal decodes a message. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrapf(err, "unmarshal %T", msg)
	}
	return nil
}

// WithCodec returns the option installing Codec on handlers and clients.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}
