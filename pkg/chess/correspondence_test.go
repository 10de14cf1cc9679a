package chess

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
)

func TestCorrespondenceClock_DeadlineFromUpdate(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCorrespondenceClock(48*time.Hour, 24*time.Hour, Hooks{}, fc, zap.NewNop())

	fc.Advance(6 * time.Hour)
	white, black := c.GetRemainingTime()
	assert.Equal(t, 42*time.Hour, white)
	assert.Equal(t, 18*time.Hour, black)
}

func TestCorrespondenceClock_TickClaimsAfterDeadline(t *testing.T) {
	fc := clockwork.NewFakeClock()
	claims := 0
	throttle := NewThrottle(500*time.Millisecond, fc, func() { claims++ })
	display := &recordingDisplay{}
	c := NewCorrespondenceClock(2*time.Second, time.Hour, Hooks{
		OutOfTime: func() { throttle.Call() },
		Display:   display,
	}, fc, zap.NewNop())

	fc.Advance(time.Second)
	c.Tick(color.White)
	assert.Equal(t, 0, claims)

	fc.Advance(time.Second)
	c.Tick(color.White)
	c.Tick(color.White)
	assert.Equal(t, 1, claims, "repeated ticks inside the cooldown claim once")

	fc.Advance(time.Second)
	c.Tick(color.White)
	assert.Equal(t, 2, claims)

	c.Tick(color.Black)
	assert.Equal(t, 2, claims, "black still has time")
	assert.Equal(t, time.Duration(0), display.white)
}

func TestCorrespondenceClock_UpdateMovesDeadline(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCorrespondenceClock(time.Minute, time.Minute, Hooks{}, fc, zap.NewNop())

	fc.Advance(2 * time.Minute)
	c.Update(72*time.Hour, time.Minute)

	white, _ := c.GetRemainingTime()
	assert.Equal(t, 72*time.Hour, white)
}

func TestFormatDeadline(t *testing.T) {
	assert.Equal(t, "2d 5h", FormatDeadline(53*time.Hour))
	assert.Equal(t, "4h 10m", FormatDeadline(4*time.Hour+10*time.Minute))
	assert.Equal(t, "7m", FormatDeadline(7*time.Minute+30*time.Second))
	assert.Equal(t, "0m", FormatDeadline(-time.Second))
}
