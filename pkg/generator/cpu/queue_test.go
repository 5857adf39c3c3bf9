package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

func TestMatchQueuePushNeverWaitsOnConsumer(t *testing.T) {
	q := newMatchQueue()

	const n = 1000
	for i := 0; i < n; i++ {
		q.Push(generator.MatchEvent{Attempts: uint64(i)})
	}
	q.Close()

	var got []uint64
	for ev := range q.Out() {
		got = append(got, ev.Attempts)
	}
	assert.Len(t, got, n)
	for i, a := range got {
		assert.Equal(t, uint64(i), a, fmt.Sprintf("position %d", i))
	}
}

func TestMatchQueueCloseEmpty(t *testing.T) {
	q := newMatchQueue()
	q.Close()

	_, ok := <-q.Out()
	assert.False(t, ok)
}

func TestMatchQueueInterleaved(t *testing.T) {
	q := newMatchQueue()
	done := make(chan []string)
	go func() {
		var ids []string
		for ev := range q.Out() {
			ids = append(ids, ev.Candidate.PublicID)
		}
		done <- ids
	}()

	for _, id := range []string{"a", "b", "c"} {
		q.Push(generator.MatchEvent{Candidate: generator.Candidate{PublicID: id}})
	}
	q.Close()

	assert.Equal(t, []string{"a", "b", "c"}, <-done)
}
