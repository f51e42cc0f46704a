package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RegisterAndTasks(t *testing.T) {
	s := NewScheduler(time.Second)
	s.Register("publish-scheduled", time.Minute, func(context.Context) error { return nil })

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "publish-scheduled", tasks[0].Name)
	assert.Equal(t, "1m0s", tasks[0].Interval)
}

func TestScheduler_RunDue(t *testing.T) {
	s := NewScheduler(time.Second)

	count := 0
	s.Register("counter", time.Minute, func(context.Context) error {
		count++
		return nil
	})
	s.Register("failing", time.Minute, func(context.Context) error {
		return errors.New("db down")
	})

	// not due yet
	s.runDue(context.Background(), time.Now())
	assert.Equal(t, 0, count)

	later := time.Now().Add(2 * time.Minute)
	s.runDue(context.Background(), later)
	assert.Equal(t, 1, count)

	tasks := s.Tasks()
	assert.EqualValues(t, 1, tasks[0].RunCount)
	assert.Nil(t, tasks[0].LastError)
	require.NotNil(t, tasks[1].LastError)
	assert.Equal(t, "db down", *tasks[1].LastError)
	assert.Equal(t, later.Add(time.Minute), tasks[0].NextRun)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(5 * time.Millisecond)

	var runs int32
	s.Register("fast", time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) > 0 }, time.Second, 5*time.Millisecond)
	s.Stop()
}
