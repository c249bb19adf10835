package schedule_test

import (
	"encoding/json"
	"testing"

	"matchday/internal/back/schedule"
)

func TestDayOfWeekScheduler(t *testing.T) {
	s := schedule.NewDayOfWeekScheduler()
	s.Sat = []string{"18:00 UTC"}
	s.Sun = []string{"10:30 UTC"}

	conf, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	testScheduler(
		t,
		schedule.New(schedule.Config{
			Type:    schedule.TypeDayOfWeek,
			Payload: conf,
		}),
		[]scheduleTestData{
			// 2020-10-03 is a Saturday.
			{
				now:      "2020-10-03 09:00:00+00:00",
				expected: "2020-10-03 18:00:00+00:00",
			},
			{
				now:      "2020-10-03 19:00:00+00:00",
				expected: "2020-10-04 10:30:00+00:00",
			},
			{
				now:      "2020-10-04 11:00:00+00:00",
				expected: "2020-10-10 18:00:00+00:00",
			},
		},
	)
}

func TestDayOfWeekSchedulerEmpty(t *testing.T) {
	s := schedule.NewDayOfWeekScheduler()
	if actual := s.Next(); !actual.IsZero() {
		t.Errorf("expected zero time, got %s", actual)
	}
}
