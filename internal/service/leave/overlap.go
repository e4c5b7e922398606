package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
)

type OverlapDetector struct{}

func NewOverlapDetector() *OverlapDetector {
	return &OverlapDetector{}
}

// HasOverlap reports whether any PENDING or APPROVED request in existing
// shares a date with [candidateStart, candidateEnd].
func (o *OverlapDetector) HasOverlap(existing []leave.LeaveRequest, candidateStart, candidateEnd time.Time) bool {
	start := leave.DateOf(candidateStart)
	end := leave.DateOf(candidateEnd)
	for _, r := range existing {
		if !r.Status.IsActive() {
			continue
		}
		if r.Overlaps(start, end) {
			return true
		}
	}
	return false
}
