package session

import "fmt"

type State string

const (
	StateIdle        State = "idle"
	StateConnecting  State = "connecting"
	StateStreaming   State = "streaming"
	StateStopping    State = "stopping"
	StateSummarizing State = "summarizing"
	StateFailed      State = "failed"
)

var allowedTransitions = map[State][]State{
	StateIdle:        {StateConnecting},
	StateConnecting:  {StateStreaming, StateFailed},
	StateStreaming:   {StateStopping, StateFailed},
	StateStopping:    {StateSummarizing, StateFailed},
	StateSummarizing: {StateIdle, StateFailed},
	StateFailed:      {StateIdle},
}

func canTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transitionLocked moves the controller to the next state and queues the
// observer notification. c.mu must be held.
func (c *Controller) transitionLocked(to State) {
	from := c.state
	if !canTransition(from, to) {
		panic(fmt.Sprintf("session: illegal transition %s -> %s", from, to))
	}
	c.state = to
	obs := c.observer
	c.queueLocked(func() { obs.OnStateChange(from, to) })
}
