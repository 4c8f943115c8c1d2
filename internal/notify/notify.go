// Package notify carries transient user-facing feedback: "X added",
// "X deleted", and explicit failure messages. The UI reverting on its
// own is a poor failure signal, so failed mutations publish a message
// of their own instead of rolling back silently.
package notify

import (
	"fmt"
	"sync"
)

// Message is one transient notification.
type Message struct {
	Text  string
	IsErr bool
}

// Notifier holds the latest message and fans new messages out to
// subscribers. All methods are safe on a nil receiver, so components can
// run without a feedback channel wired.
type Notifier struct {
	mu          sync.Mutex
	latest      Message
	subscribers []func(Message)
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn to receive every future message. Subscribers
// are invoked on the publishing goroutine, outside the notifier's lock.
func (n *Notifier) Subscribe(fn func(Message)) {
	if n == nil || fn == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// Latest returns the most recently published message.
func (n *Notifier) Latest() Message {
	if n == nil {
		return Message{}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.latest
}

// Successf publishes a success message.
func (n *Notifier) Successf(format string, args ...interface{}) {
	n.publish(Message{Text: fmt.Sprintf(format, args...)})
}

// Errorf publishes a failure message.
func (n *Notifier) Errorf(format string, args ...interface{}) {
	n.publish(Message{Text: fmt.Sprintf(format, args...), IsErr: true})
}

func (n *Notifier) publish(message Message) {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.latest = message
	subscribers := make([]func(Message), len(n.subscribers))
	copy(subscribers, n.subscribers)
	n.mu.Unlock()

	for _, fn := range subscribers {
		fn(message)
	}
}
