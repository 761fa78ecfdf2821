package notification

import "fmt"

// Template keys match application statuses plus the two non-status events.
const (
	EventApplicationReceived = "application_received"
	EventMeetGreetScheduled  = "meet_greet_scheduled"
)

type template struct {
	subject string
	body    string
}

// Only these transitions produce mail. A status without a template (pending,
// withdrawn) yields no message rather than a broken lookup.
var templates = map[string]template{
	"approved": {
		subject: "Your adoption application was approved",
		body:    `<p>Congratulations! Your application to adopt <strong>%s</strong> has been approved.</p><p>The shelter will contact you to arrange the next steps.</p>`,
	},
	"rejected": {
		subject: "Update on your adoption application",
		body:    `<p>We're sorry. Your application to adopt <strong>%s</strong> was not approved this time.</p><p>Other pets are waiting for a home; we'd love to see you apply again.</p>`,
	},
	"reviewing": {
		subject: "Your adoption application is under review",
		body:    `<p>Good news! The shelter has started reviewing your application to adopt <strong>%s</strong>.</p>`,
	},
	EventApplicationReceived: {
		subject: "New adoption application received",
		body:    `<p>A new adoption application has been submitted for <strong>%s</strong>.</p><p>Log in to review it.</p>`,
	},
	EventMeetGreetScheduled: {
		subject: "Meet and greet scheduled",
		body:    `<p>A meet and greet for <strong>%s</strong> has been scheduled.</p>`,
	},
}

// Compose builds the message for an event. It returns ok=false when the
// event has no template, which callers treat as "send nothing".
func Compose(event, to, petName string) (Message, bool) {
	tpl, ok := templates[event]
	if !ok {
		return Message{}, false
	}
	return Message{
		To:       to,
		Subject:  tpl.subject,
		HTMLBody: fmt.Sprintf(tpl.body, petName),
	}, true
}

// ComposeMeetGreet builds the meet-and-greet message with the date and
// location the shelter picked.
func ComposeMeetGreet(to, petName, date, location string) Message {
	msg, _ := Compose(EventMeetGreetScheduled, to, petName)
	msg.HTMLBody += fmt.Sprintf(`<p>When: %s<br>Where: %s</p>`, date, location)
	return msg
}
