package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetTimes(t *testing.T) {
	start := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

	t.Run("24 hours at 60 minutes yields 25 targets", func(t *testing.T) {
		end := start.Add(24 * time.Hour)
		targets, err := TargetTimes(start, end, time.Hour)
		require.NoError(t, err)
		require.Len(t, targets, 25)
		assert.Equal(t, start, targets[0])
		assert.Equal(t, end, targets[24])
	})

	t.Run("end not on the step grid is excluded", func(t *testing.T) {
		end := start.Add(24*time.Hour + 30*time.Minute)
		targets, err := TargetTimes(start, end, time.Hour)
		require.NoError(t, err)
		require.Len(t, targets, 25)
		assert.Equal(t, start.Add(24*time.Hour), targets[len(targets)-1])
	})

	t.Run("equal start and end yields one target", func(t *testing.T) {
		targets, err := TargetTimes(start, start, time.Hour)
		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, start, targets[0])
	})

	t.Run("strictly increasing", func(t *testing.T) {
		targets, err := TargetTimes(start, start.Add(6*time.Hour), 45*time.Minute)
		require.NoError(t, err)
		for i := 1; i < len(targets); i++ {
			assert.True(t, targets[i].After(targets[i-1]))
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := TargetTimes(start, start.Add(-time.Hour), time.Hour)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "precedes start")
	})

	t.Run("non-positive interval", func(t *testing.T) {
		_, err := TargetTimes(start, start.Add(time.Hour), 0)
		require.Error(t, err)

		_, err = TargetTimes(start, start.Add(time.Hour), -time.Minute)
		require.Error(t, err)
	})
}

func TestSceneCaption(t *testing.T) {
	t.Run("GOES broadcast format with day of year", func(t *testing.T) {
		actual := time.Date(2025, 12, 1, 12, 1, 17, 0, time.UTC)
		got := SceneCaption(19, actual)
		assert.Equal(t, "GOES-19  BAND=2 (0.64 UM) (VIS)  01-DEC-2025 (2025335)  12:01 UTC", got)
	})

	t.Run("day of year is zero padded", func(t *testing.T) {
		actual := time.Date(2026, 1, 2, 0, 30, 0, 0, time.UTC)
		got := SceneCaption(16, actual)
		assert.Contains(t, got, "(2026002)")
		assert.Contains(t, got, "GOES-16")
	})

	t.Run("non-UTC input is normalized", func(t *testing.T) {
		loc := time.FixedZone("CST", -6*3600)
		actual := time.Date(2025, 6, 1, 18, 0, 0, 0, loc)
		got := SceneCaption(19, actual)
		assert.Contains(t, got, "00:00 UTC")
		assert.Contains(t, got, "02-JUN-2025")
	})
}
