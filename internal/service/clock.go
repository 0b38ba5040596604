package service

import (
	"math/rand"
	"time"
)

// clock источник времени и идентификаторов. Идентификатор это метка времени в миллисекундах.
type clock struct {
	now    func() time.Time
	jitter func(n int64) int64
}

func defaultClock() clock {
	return clock{now: time.Now, jitter: rand.Int63n}
}

// Option настраивает сервис (используется в тестах)
type Option func(*clock)

func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

func WithJitter(jitter func(n int64) int64) Option {
	return func(c *clock) { c.jitter = jitter }
}

func newClock(opts []Option) clock {
	c := defaultClock()
	for _, o := range opts {
		o(&c)
	}
	return c
}

// nextID returns a timestamp id not yet taken. Bulk ids get a random offset below 1000.
func (c clock) nextID(taken map[int64]bool, bulk bool) int64 {
	id := c.now().UnixMilli()
	if bulk {
		id += c.jitter(1000)
	}
	for taken[id] {
		id++
	}
	taken[id] = true
	return id
}

func idSet[T any](list []T, id func(T) int64) map[int64]bool {
	out := make(map[int64]bool, len(list))
	for _, v := range list {
		out[id(v)] = true
	}
	return out
}
