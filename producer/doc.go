// Package producer publishes domain messages to a broker topic without
// ever failing the caller.
//
// A Producer is parameterized over the message type. Each publish call
// encodes the message into an envelope.Envelope once, then hands it to a
// Client, the broker capability implemented by the packages under
// transports.
//
// Two publish modes exist. PublishBestEffort makes a single attempt.
// PublishResilient composes two policies from the policy package: every
// attempt is bounded by Config.Timeout.PerAttempt, and failed or timed out
// attempts are retried up to Config.Retry.MaxAttempts times with a
// constant Config.Retry.Delay in between. Publish picks one of the two
// according to Config.Retry.Enabled.
//
// Whatever happens, publish methods return nothing. Failed attempts are
// logged at warning level, timeouts and exhaustion at error level, and
// the Metrics recorder is notified. Cancelling the context stops a publish
// promptly and is not reported as a failure.
package producer
