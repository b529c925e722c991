package export

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"sales-monitor/internal/models"
)

var ErrNoSinks = errors.New("no export sinks configured")

// Sink receives export documents.
type Sink interface {
	Name() string
	// Deliver stores doc and returns where it ended up.
	Deliver(ctx context.Context, doc Document) (string, error)
}

// Result is the outcome of one sink delivery.
type Result struct {
	Sink     string `json:"sink"`
	Location string `json:"location,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Exporter struct {
	sinks  []Sink
	logger *logrus.Logger
	now    func() time.Time
}

func NewExporter(logger *logrus.Logger, sinks ...Sink) *Exporter {
	return &Exporter{
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
	}
}

func (e *Exporter) Sinks() int {
	return len(e.sinks)
}

// Run renders deals as CSV and hands the document to every sink. A failing
// sink does not stop the others; its error is reported in its Result.
func (e *Exporter) Run(ctx context.Context, deals []models.Deal) ([]Result, error) {
	if len(e.sinks) == 0 {
		return nil, ErrNoSinks
	}

	doc := CSV(deals, e.now())
	results := make([]Result, 0, len(e.sinks))

	for _, sink := range e.sinks {
		res := Result{Sink: sink.Name()}
		location, err := sink.Deliver(ctx, doc)
		if err != nil {
			res.Error = err.Error()
			e.logger.WithError(err).WithField("sink", sink.Name()).Error("Failed to export deals")
		} else {
			res.Location = location
			e.logger.WithFields(logrus.Fields{
				"sink":     sink.Name(),
				"location": location,
				"deals":    len(deals),
				"bytes":    len(doc.Body),
			}).Info("Successfully exported deals")
		}
		results = append(results, res)
	}

	return results, nil
}

// Sign returns the X-Signature value for body.
func Sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}
