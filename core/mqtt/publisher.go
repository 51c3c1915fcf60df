// Package mqtt defines the broker-facing publishing contract used to announce
// plans and readiness changes.
package mqtt

import "errors"

// ErrPublishFailed is returned once every publish attempt has failed.
var ErrPublishFailed = errors.New("mqtt publish failed")

// Publisher sends a payload to a broker topic.
type Publisher interface {
	Publish(topic string, payload []byte, retained bool) error
	Disconnect()
}
