package envelope

type options struct {
	id      string
	headers map[string]string
}

// Option is a function type that customizes an Envelope while it is
// built. Options are passed to Builder.Build.
type Option func(*options)

// Header is an Option that adds a custom header to the envelope. You
// may pass as many Header options as you wish. If multiple Headers are
// defined for the same key, the value of the last one wins. The
// Message-Id and Produced-At headers cannot be overridden this way.
func Header(k, v string) Option {
	return func(o *options) {
		o.headers[k] = v
	}
}

// ID is an Option that sets the Message-Id header instead of
// generating one. Passing the same ID to every attempt of a publish
// lets consumers deduplicate.
func ID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}
