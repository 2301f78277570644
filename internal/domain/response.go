package domain

import "fmt"

// Message is one line of user-facing output produced by an operation.
// Err marks it as an error message rather than informational text.
type Message struct {
	Text string
	Err  bool
}

func Info(format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...)}
}

func Errorf(format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...), Err: true}
}

// Response is the envelope every public client operation returns. Messages
// are ordered as they occurred; composing two responses concatenates them.
// Recoverable failures live here — a non-nil error alongside a Response is
// reserved for contract violations.
type Response struct {
	Success  bool
	Torrents []*Torrent
	Path     string
	Messages []Message
}

func Failure(msgs ...Message) Response {
	return Response{Messages: msgs}
}

// FailureFromErr wraps a transport error as a failed response.
func FailureFromErr(err error) Response {
	return Response{Messages: []Message{{Text: err.Error(), Err: true}}}
}

// Errors returns only the error messages.
func (r Response) Errors() []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Err {
			out = append(out, m)
		}
	}
	return out
}
