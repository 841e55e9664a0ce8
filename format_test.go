package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", formatTime(time.Time{}))

	now := time.Now()
	sameYear := time.Date(now.Year(), 3, 5, 14, 30, 0, 0, time.Local)
	assert.Equal(t, "Mar  5 14:30", formatTime(sameYear))

	oldYear := time.Date(2019, 11, 20, 9, 0, 0, 0, time.Local)
	assert.Equal(t, "Nov 20  2019", formatTime(oldYear))
}
