package offer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("  brief  ", &CandidateRecord{Name: "Ravi"})

	rec, ok := c.Get("brief")
	require.True(t, ok)
	assert.Equal(t, "Ravi", rec.Name)

	// callers get a copy
	rec.Name = "changed"
	rec, _ = c.Get("brief")
	assert.Equal(t, "Ravi", rec.Name)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("brief")
	assert.False(t, ok)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Zero(t, c.Len())
}

func TestCacheJanitorStops(t *testing.T) {
	c := NewCache(time.Nanosecond)
	c.Set("brief", &CandidateRecord{Name: "Ravi"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Janitor(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestResolveUsesCache(t *testing.T) {
	r, fc := newResolver(`{"name":"Ravi","position":"Intern","company":"Decoarte","template":"decoarte"}`)
	r.WithCache(NewCache(time.Hour))

	first, err := r.Resolve(context.Background(), "Ravi, intern at Decoarte")
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), "Ravi, intern at Decoarte\n")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fc.calls)
}

func TestResolveDoesNotCacheFailures(t *testing.T) {
	r, fc := newResolver("")
	fc.err = errors.New("upstream down")
	r.WithCache(NewCache(time.Hour))

	_, err := r.Resolve(context.Background(), "Ravi")
	require.Error(t, err)

	fc.err = nil
	fc.answer = `{"name":"Ravi"}`
	rec, err := r.Resolve(context.Background(), "Ravi")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", rec.Name)
	assert.Equal(t, 2, fc.calls)
}
