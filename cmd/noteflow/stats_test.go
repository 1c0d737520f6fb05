package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

func TestSparkline(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	days := []core.DayActivity{{Date: day, Count: 0}, {Date: day, Count: 4}, {Date: day, Count: 8}}
	assert.Contains(t, sparkline(days), " ▄█")
	assert.Contains(t, sparkline([]core.DayActivity{{Date: day}}), " ")
}
