package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"taktivent/internal/metrics"
)

const (
	Folder       = "taktivent"
	MaxImageSize = 10 << 20
	breakerName  = "cloudinary"
)

var ErrUnavailable = errors.New("image storage is temporarily unavailable")

type Asset struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}

// Uploader is the storage backend; Cloudinary in production.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, publicID string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// Service guards an Uploader with a circuit breaker and names assets.
type Service struct {
	up     Uploader
	cb     *gobreaker.CircuitBreaker[*Asset]
	logger *zap.SugaredLogger
	newID  func() string
}

func NewService(up Uploader, logger *zap.SugaredLogger) *Service {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Asset](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Service{up: up, cb: cb, logger: logger, newID: uuid.NewString}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Upload stores one image under a fresh public id.
func (s *Service) Upload(ctx context.Context, file io.Reader) (*Asset, error) {
	publicID := Folder + "/" + s.newID()

	asset, err := s.cb.Execute(func() (*Asset, error) {
		return s.up.Upload(ctx, file, publicID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return nil, ErrUnavailable
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return nil, fmt.Errorf("upload %s: %w", publicID, err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return asset, nil
}

// Delete removes an asset; failures are logged and not returned since the
// row that referenced the image is already gone.
func (s *Service) Delete(ctx context.Context, publicID string) {
	if err := s.up.Destroy(ctx, publicID); err != nil {
		s.logger.Warnw("failed to delete image", "public_id", publicID, "error", err.Error())
	}
}
