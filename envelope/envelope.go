// Package envelope builds the key/value unit handed to a broker client.
//
// An Envelope is built once per publish call by a Builder, which encodes
// the domain message with an injected codec.Codec. Two default headers
// are added to every Envelope:
//
//   - Message-Id : a unique ID for the message
//   - Produced-At : the build time in the UTC timezone
//
// Build can also be passed Options that add headers or override the ID:
//
//	env, err := b.Build("customer-42", c, envelope.Header("Source", "api"))
package envelope

import (
	"fmt"
	"time"

	"github.com/rogpeppe/fastuuid"

	"github.com/heetch/courier/codec"
)

// Header names set on every envelope.
const (
	HeaderMessageID  = "Message-Id"
	HeaderProducedAt = "Produced-At"
)

var uuids = fastuuid.MustNewGenerator()

// Envelope is the wire-level representation of a message. It is
// immutable once built: the accessors return copies.
type Envelope struct {
	key     string
	value   []byte
	headers map[string]string
}

// New returns an Envelope holding copies of value and headers.
// It is mostly useful to broker client tests.
func New(key string, value []byte, headers map[string]string) Envelope {
	return Envelope{
		key:     key,
		value:   append([]byte(nil), value...),
		headers: copyHeaders(headers),
	}
}

// Key returns the message key. It may be empty, in which case the
// broker picks the partition.
func (e Envelope) Key() string {
	return e.key
}

// Value returns the encoded message.
func (e Envelope) Value() []byte {
	return append([]byte(nil), e.value...)
}

// Headers returns the message headers.
func (e Envelope) Headers() map[string]string {
	return copyHeaders(e.headers)
}

// ID returns the Message-Id header.
func (e Envelope) ID() string {
	return e.headers[HeaderMessageID]
}

// Len returns the size of the encoded value.
func (e Envelope) Len() int {
	return len(e.value)
}

func copyHeaders(h map[string]string) map[string]string {
	c := make(map[string]string, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// EncodingError is returned by Build when the message cannot be
// encoded. It is never worth retrying.
type EncodingError struct {
	Key string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode message with key %q: %v", e.Key, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Builder encodes messages of type T into Envelopes.
// A Builder holds no mutable state and is safe for concurrent use.
type Builder[T any] struct {
	codec codec.Codec
	now   func() time.Time
}

// NewBuilder returns a Builder using c to encode messages.
// A nil codec defaults to codec.JSON.
func NewBuilder[T any](c codec.Codec) *Builder[T] {
	if c == nil {
		c = codec.JSON()
	}
	return &Builder[T]{codec: c, now: time.Now}
}

// Build encodes message and returns the resulting Envelope.
func (b *Builder[T]) Build(key string, message T, opts ...Option) (Envelope, error) {
	value, err := b.codec.Encode(message)
	if err != nil {
		return Envelope{}, &EncodingError{Key: key, Err: err}
	}

	o := options{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuids.Hex128()
	}
	o.headers[HeaderMessageID] = o.id
	o.headers[HeaderProducedAt] = b.now().UTC().Format(time.RFC3339Nano)

	return Envelope{key: key, value: value, headers: o.headers}, nil
}
