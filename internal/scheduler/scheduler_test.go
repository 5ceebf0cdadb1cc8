package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"exposure/pkg/requestcontext"
)

type SchedulerSuite struct {
	suite.Suite
	reg   *prometheus.Registry
	sched *Scheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.reg = prometheus.NewRegistry()
	s.sched = New(WithRegisterer(s.reg))
}

func (s *SchedulerSuite) TearDownTest() {
	s.sched.Stop()
}

func (s *SchedulerSuite) TestScheduleOnceRunsOnceWithTimeoutTrigger() {
	got := make(chan string, 2)
	s.sched.ScheduleOnce("processing:abc", 5*time.Millisecond, func(ctx context.Context) {
		got <- requestcontext.Trigger(ctx)
	})
	s.True(s.sched.Has("processing:abc"))

	select {
	case trigger := <-got:
		s.Equal(requestcontext.TriggerTimeout, trigger)
	case <-time.After(time.Second):
		s.FailNow("job did not run")
	}
	s.Eventually(func() bool { return !s.sched.Has("processing:abc") }, time.Second, time.Millisecond)
	s.Equal(float64(1), testutil.ToFloat64(s.sched.runs.WithLabelValues("processing")))
}

func (s *SchedulerSuite) TestReplaceAndCancel() {
	var first, second atomic.Int32
	s.sched.ScheduleOnce("job", 20*time.Millisecond, func(context.Context) { first.Add(1) })
	s.sched.ScheduleOnce("job", 20*time.Millisecond, func(context.Context) { second.Add(1) })
	s.Eventually(func() bool { return second.Load() == 1 }, time.Second, time.Millisecond)
	s.Zero(first.Load())

	var cancelled atomic.Int32
	s.sched.ScheduleOnce("other", 20*time.Millisecond, func(context.Context) { cancelled.Add(1) })
	s.True(s.sched.Cancel("other"))
	s.False(s.sched.Cancel("other"))
	time.Sleep(40 * time.Millisecond)
	s.Zero(cancelled.Load())
}

func (s *SchedulerSuite) TestPeriodic() {
	var runs atomic.Int32
	s.True(s.sched.EnsurePeriodic("reminder", 5*time.Millisecond, func(ctx context.Context) {
		if requestcontext.Trigger(ctx) == requestcontext.TriggerPeriodic {
			runs.Add(1)
		}
	}))
	s.False(s.sched.EnsurePeriodic("reminder", 5*time.Millisecond, func(context.Context) {}))
	s.Eventually(func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)

	s.Equal([]string{"reminder"}, s.sched.Pending())
	s.True(s.sched.Cancel("reminder"))
	s.Empty(s.sched.Pending())
}

func (s *SchedulerSuite) TestPanickingJobDoesNotKillScheduler() {
	done := make(chan struct{})
	s.sched.ScheduleOnce("boom", time.Millisecond, func(context.Context) { panic("boom") })
	s.sched.ScheduleOnce("after", 10*time.Millisecond, func(context.Context) { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("second job did not run")
	}
}

func (s *SchedulerSuite) TestStopRejectsNewJobs() {
	s.sched.Stop()
	s.sched.ScheduleOnce("late", time.Millisecond, func(context.Context) {})
	s.Empty(s.sched.Pending())
}
