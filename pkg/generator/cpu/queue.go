package cpu

import "github.com/Amr-9/npubhunter/pkg/generator"

// matchQueue is an unbounded FIFO between the coordinator and the consumer.
// Push never waits on the consumer; Close lets the consumer drain what is
// pending and then closes Out.
type matchQueue struct {
	in  chan generator.MatchEvent
	out chan generator.MatchEvent
}

func newMatchQueue() *matchQueue {
	q := &matchQueue{
		in:  make(chan generator.MatchEvent),
		out: make(chan generator.MatchEvent),
	}
	go q.run()
	return q
}

// Push enqueues an event. Must not be called after Close.
func (q *matchQueue) Push(ev generator.MatchEvent) {
	q.in <- ev
}

// Close signals that no more events will be pushed.
func (q *matchQueue) Close() {
	close(q.in)
}

// Out is the receive end handed to the consumer.
func (q *matchQueue) Out() <-chan generator.MatchEvent {
	return q.out
}

func (q *matchQueue) run() {
	defer close(q.out)

	var pending []generator.MatchEvent
	in := q.in
	for in != nil || len(pending) > 0 {
		// A nil channel disables the send case while nothing is pending.
		var out chan generator.MatchEvent
		var next generator.MatchEvent
		if len(pending) > 0 {
			out = q.out
			next = pending[0]
		}

		select {
		case ev, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, ev)
		case out <- next:
			pending[0] = generator.MatchEvent{}
			pending = pending[1:]
		}
	}
}
