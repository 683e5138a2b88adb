package batch

import (
	"time"

	"github.com/snaptext/snaptext/pkg/logger"
	"github.com/snaptext/snaptext/pkg/models"
)

// Report summarizes a completed batch run.
type Report struct {
	StartTime time.Time
	EndTime   time.Time
	Total     int
	Succeeded int
	Failed    int
}

func NewReport() *Report {
	return &Report{StartTime: time.Now()}
}

// Finish closes the report, counting terminal statuses.
func (rep *Report) Finish(statuses map[string]models.ProcessingStatus) {
	rep.EndTime = time.Now()
	rep.Total = len(statuses)
	rep.Succeeded = 0
	rep.Failed = 0
	for _, st := range statuses {
		switch st {
		case models.StatusSuccess:
			rep.Succeeded++
		case models.StatusError:
			rep.Failed++
		}
	}
}

func (rep *Report) Print(log *logger.Logger) {
	log.Info("Batch complete:")
	log.Info("- Items processed: %d", rep.Total)
	log.Info("- Succeeded: %d", rep.Succeeded)
	log.Info("- Failed: %d", rep.Failed)
	log.Info("- Duration: %v", rep.EndTime.Sub(rep.StartTime).Round(time.Millisecond))
}
