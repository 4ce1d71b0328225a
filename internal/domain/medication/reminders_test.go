package medication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func sampleSchedule(t *testing.T) Schedule {
	t.Helper()
	s, err := Derive([]MedicationEntry{
		{Name: "Metformin", Dosage: "500mg", Frequency: "twice daily"},
		{Name: "Lisinopril", Dosage: "10mg", Frequency: "once daily", Timing: "in the morning"},
	})
	require.NoError(t, err)
	return s
}

func TestDue_OnlyEventsInsideWindow(t *testing.T) {
	s := sampleSchedule(t)

	got := Due(s, at(7, 40), 60*time.Minute)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, Clock(8, 0), e.Time)
	}
	assert.Equal(t, "Metformin", got[0].Medication)
	assert.Equal(t, "Lisinopril", got[1].Medication)
}

func TestDue_NothingDue(t *testing.T) {
	s := sampleSchedule(t)
	assert.Empty(t, Due(s, at(9, 0), 60*time.Minute))
}

func TestDue_WindowIsInclusive(t *testing.T) {
	s := sampleSchedule(t)
	assert.Len(t, Due(s, at(19, 0), 60*time.Minute), 1)
	assert.Empty(t, Due(s, at(18, 59), 60*time.Minute))
}

func TestDue_WrapsMidnight(t *testing.T) {
	s, err := Derive([]MedicationEntry{{Name: "Tacrolimus", Frequency: "twice daily", Timing: "at 00:15"}})
	require.NoError(t, err)

	rem := dueReminders(s, at(23, 30), 60*time.Minute)
	require.Len(t, rem, 1)
	assert.Equal(t, 45, rem[0].DueInMinutes)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 15, 0, 0, time.UTC), rem[0].DueAt)
}

func TestDueReminders_SortedByProximity(t *testing.T) {
	s := sampleSchedule(t)

	rem := dueReminders(s, at(19, 30), 13*time.Hour)
	require.Len(t, rem, 3)
	assert.Equal(t, Clock(20, 0), rem[0].Time)
	assert.Equal(t, 30, rem[0].DueInMinutes)
	assert.Equal(t, Clock(8, 0), rem[1].Time)
	assert.Equal(t, 750, rem[1].DueInMinutes)
}

func TestDue_NegativeWindow(t *testing.T) {
	s := sampleSchedule(t)
	assert.Empty(t, Due(s, at(8, 0), -time.Minute))
}
