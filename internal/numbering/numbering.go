// Package numbering assigns document reference numbers from server-side
// monotonic counters. Manual numbers are accepted verbatim by callers;
// automatic numbers never collide because Redis INCR is monotonic per
// series.
package numbering

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Well-known document series.
const (
	SeriesAbono       = "ABO"
	SeriesQuotation   = "COT"
	SeriesReservation = "RES"
	SeriesExpense     = "GAS"
)

// Service hands out sequential reference numbers.
type Service struct {
	rdb *redis.Client
}

// NewService builds a Service instance.
func NewService(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

// Next returns the next reference number in the series, formatted as
// SER-000001.
func (s *Service) Next(ctx context.Context, series string) (string, error) {
	n, err := s.rdb.Incr(ctx, "numbering:"+series).Result()
	if err != nil {
		return "", fmt.Errorf("numbering: incr %s: %w", series, err)
	}
	return fmt.Sprintf("%s-%06d", series, n), nil
}
