package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	n := New()
	assert.Equal(t, Message{}, n.Latest())

	n.Successf("%s added", "Buy milk")
	assert.Equal(t, Message{Text: "Buy milk added"}, n.Latest())

	n.Errorf("Could not delete %s", "Buy milk")
	latest := n.Latest()
	assert.Equal(t, "Could not delete Buy milk", latest.Text)
	assert.True(t, latest.IsErr)
}

func TestSubscribe(t *testing.T) {
	n := New()

	var received []Message
	n.Subscribe(func(m Message) {
		received = append(received, m)
	})

	n.Successf("first")
	n.Errorf("second")

	require.Len(t, received, 2)
	assert.Equal(t, Message{Text: "first"}, received[0])
	assert.Equal(t, Message{Text: "second", IsErr: true}, received[1])
}

func TestMultipleSubscribers(t *testing.T) {
	n := New()

	counts := make([]int, 2)
	n.Subscribe(func(Message) { counts[0]++ })
	n.Subscribe(func(Message) { counts[1]++ })

	n.Successf("fan out")

	assert.Equal(t, []int{1, 1}, counts)
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier

	// None of these may panic
	n.Subscribe(func(Message) {})
	n.Successf("ignored")
	n.Errorf("ignored")
	assert.Equal(t, Message{}, n.Latest())
}
