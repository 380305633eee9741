package collector

//go:generate mockgen -destination=mock_collector.go -package=collector github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/collector Clock,Ticker

import (
	"context"
	"time"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/models"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/sink"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// SessionWriter is the shared persistence writer every badge pipeline
// appends to.
type SessionWriter interface {
	Enqueue(reading models.Reading)
	Run(ctx context.Context) error
	Stop()
	Stats() sink.Stats
	Path() string
}
