package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:30", want: "0 30 9 * * *"},
		{in: " 23:59 ", want: "0 59 23 * * *"},
		{in: "00:00", want: "0 0 0 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "1:2:3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduleInterval_RejectsNonPositive(t *testing.T) {
	s := NewSchedulerService(time.UTC)

	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
}

func TestScheduleInterval_RunsJob(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	ran := make(chan struct{}, 1)
	_, err := s.ScheduleInterval(time.Second, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduleDaily_NextRun(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	id, err := s.ScheduleDaily("06:15", func() {})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	next := s.Next(id)
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, 15, next.Minute())
}

func TestScheduleReport(t *testing.T) {
	tests := []struct {
		name     string
		sched    ReportSchedule
		wantGap  time.Duration
		wantErr  bool
		wantText string
	}{
		{name: "daily wins over interval", sched: ReportSchedule{At: "06:15", Every: time.Hour}, wantGap: 24 * time.Hour, wantText: "daily at 06:15"},
		{name: "interval", sched: ReportSchedule{Every: 90 * time.Minute}, wantGap: 90 * time.Minute, wantText: "every 1h30m0s"},
		{name: "bad daily time", sched: ReportSchedule{At: "25:00"}, wantErr: true},
		{name: "nothing set", sched: ReportSchedule{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSchedulerService(time.UTC)
			id, err := s.ScheduleReport(tt.sched, func() {})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, tt.sched.String())

			entry := s.cron.Entry(id)
			first := entry.Schedule.Next(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
			assert.Equal(t, tt.wantGap, entry.Schedule.Next(first).Sub(first))
		})
	}
}
