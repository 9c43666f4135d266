// ABOUTME: Logrus-backed diagnostic sink for conditions needing human review
// ABOUTME: Tags every report with a uuid so operators can cross-reference logs

package standard

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"plugindex-api/core/interfaces"
)

// Sink implements the DiagnosticSink interface on a logrus logger. Reports
// land at error level with a generated report id; emission never blocks and
// never fails the caller.
type Sink struct {
	log *logrus.Logger
}

// NewSink creates a sink writing through the given logrus logger.
func NewSink(log *logrus.Logger) *Sink {
	if log == nil {
		log = logrus.New()
	}
	return &Sink{log: log}
}

// Report emits a diagnostic message with structured context fields.
func (s *Sink) Report(msg string, fields map[string]interface{}) {
	entry := logrus.Fields{"report_id": uuid.NewString()}
	for k, v := range fields {
		entry[k] = v
	}
	s.log.WithFields(entry).Error(msg)
}

var _ interfaces.DiagnosticSink = (*Sink)(nil)
