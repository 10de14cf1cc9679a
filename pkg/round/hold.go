package round

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/messages"
)

const (
	holdSamples = 8
	holdMinMean = 2 * time.Millisecond
	holdMaxMean = 140 * time.Millisecond
	holdMaxSD   = 15 * time.Millisecond
)

// HoldRecorder keeps the last piece hold times and reports them to the
// server when they look machine made: short and too regular.
type HoldRecorder struct {
	transport Transport
	holds     []time.Duration
	logger    *zap.Logger
}

// NewHoldRecorder creates a recorder reporting through t.
func NewHoldRecorder(t Transport, logger *zap.Logger) *HoldRecorder {
	return &HoldRecorder{
		transport: t,
		logger:    logger,
	}
}

// Register adds a hold time. Zero means the move was not dragged.
func (h *HoldRecorder) Register(holdTime time.Duration) {
	if holdTime <= 0 {
		return
	}

	h.holds = append(h.holds, holdTime)
	if len(h.holds) > holdSamples {
		h.holds = h.holds[len(h.holds)-holdSamples:]
	}
	if len(h.holds) < holdSamples {
		return
	}

	mean, sd := h.stats()
	if mean <= holdMinMean || mean >= holdMaxMean || sd >= holdMaxSD {
		return
	}

	h.logger.Debug("suspicious hold times", zap.Duration("mean", mean), zap.Duration("sd", sd))
	h.transport.Send(messages.EventHold, messages.HoldPayload{
		Mean: roundMillis(mean),
		SD:   roundMillis(sd),
	}, messages.SendOptions{})
}

func (h *HoldRecorder) stats() (mean, sd time.Duration) {
	var sum float64
	for _, d := range h.holds {
		sum += float64(d)
	}
	m := sum / float64(len(h.holds))

	var sq float64
	for _, d := range h.holds {
		sq += math.Pow(float64(d)-m, 2)
	}

	return time.Duration(m), time.Duration(math.Sqrt(sq / float64(len(h.holds))))
}
