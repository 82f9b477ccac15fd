package registration

import "time"

// NoticeKind is the single piece of UI state the signup page renders from.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeMissingFields
	NoticePasswordMismatch
	NoticeRegistered
	NoticeFailed
)

// Notice is the feedback shown after a submission. Next and Delay are only
// meaningful for NoticeRegistered, where the page navigates to Next once
// Delay has elapsed.
type Notice struct {
	Kind  NoticeKind
	Next  string
	Delay time.Duration
}

// NoticeFor maps a failed validation outcome to its notice.
func NoticeFor(outcome Outcome) Notice {
	switch outcome.Kind {
	case OutcomeMissingFields:
		return Notice{Kind: NoticeMissingFields}
	case OutcomePasswordMismatch:
		return Notice{Kind: NoticePasswordMismatch}
	default:
		return Notice{}
	}
}

// Registered is the success notice.
func Registered(next string, delay time.Duration) Notice {
	return Notice{Kind: NoticeRegistered, Next: next, Delay: delay}
}

// Name is the identifier templates switch on.
func (n Notice) Name() string {
	switch n.Kind {
	case NoticeMissingFields:
		return "missing_fields"
	case NoticePasswordMismatch:
		return "password_mismatch"
	case NoticeRegistered:
		return "registered"
	case NoticeFailed:
		return "failed"
	default:
		return ""
	}
}

func (n Notice) Message() string {
	switch n.Kind {
	case NoticeMissingFields:
		return "All fields are required."
	case NoticePasswordMismatch:
		return "Passwords do not match."
	case NoticeRegistered:
		return "Registration successful. Redirecting to your dashboard..."
	case NoticeFailed:
		return "We could not create your account. Please try again."
	default:
		return ""
	}
}

// DelayMillis is Delay in whole milliseconds for the client-side timer.
func (n Notice) DelayMillis() int64 {
	return n.Delay.Milliseconds()
}

// DelaySeconds rounds Delay up to whole seconds for the meta refresh fallback.
func (n Notice) DelaySeconds() int64 {
	secs := int64(n.Delay / time.Second)
	if n.Delay%time.Second != 0 {
		secs++
	}
	return secs
}
