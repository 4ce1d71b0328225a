package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSchedule_PrintsBuckets(t *testing.T) {
	in := strings.NewReader("Metformin 500mg twice daily with meals\nLisinopril 10mg once daily in the morning\n")
	var out bytes.Buffer

	require.NoError(t, runSchedule(in, &out))

	want := "MORNING\n" +
		"  08:00  Lisinopril 10mg\n" +
		"AFTERNOON\n" +
		"  12:00  Metformin 500mg (with lunch)\n" +
		"EVENING\n" +
		"  18:00  Metformin 500mg (with dinner)\n"
	assert.Equal(t, want, out.String())
}

func TestRunSchedule_WarnsOnUnknownFrequency(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSchedule(strings.NewReader("Vitamin D 1000IU when I remember\n"), &out))
	assert.Contains(t, out.String(), "warning: Vitamin D")
}

func TestRunSchedule_Empty(t *testing.T) {
	err := runSchedule(strings.NewReader("\n\n"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestScheduleCmd_ReadsStdin(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("Aspirin 81mg once daily\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"schedule"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "08:00  Aspirin 81mg")
}
