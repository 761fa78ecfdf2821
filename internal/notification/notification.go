// Package notification delivers best-effort email to applicants and
// shelters. Delivery is fire-and-forget relative to the lifecycle service: a
// transition is done once persisted, whether or not the mail goes out.
package notification

import "context"

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
