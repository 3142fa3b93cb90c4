package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// callerGoneError marks a failure caused by the caller's own context ending.
// The breaker does not count it.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }

func (e *callerGoneError) Unwrap() error { return e.err }

// BreakerClient stops calling the provider after RepeatNumber consecutive
// network failures. Provider rejections (bad city, bad key) do not count.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: func(err error) bool {
			var gone *callerGoneError
			if errors.As(err, &gone) {
				return true
			}
			return err == nil || KindOf(err) != KindNetwork
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Fetch(ctx context.Context, q models.Query) (models.Observation, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		obs, err := b.wrapped.Fetch(ctx, q)
		if err != nil && ctx.Err() != nil {
			return nil, &callerGoneError{err: err}
		}
		return obs, err
	})
	if err != nil {
		var gone *callerGoneError
		if errors.As(err, &gone) {
			return models.Observation{}, gone.err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return models.Observation{}, newError(KindNetwork, fmt.Errorf("%s unavailable: %w", b.name, err))
		}
		return models.Observation{}, err
	}
	res, ok := result.(models.Observation)
	if !ok {
		return models.Observation{},
			newError(KindInternal, fmt.Errorf("%s returned unexpected result", b.name))
	}
	return res, nil
}

// State exposes the breaker state for logs and tests.
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}
