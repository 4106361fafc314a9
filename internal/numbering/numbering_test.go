package numbering

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestNextIsMonotonicPerSeries(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(rdb)
	ctx := context.Background()

	first, err := svc.Next(ctx, SeriesAbono)
	require.NoError(t, err)
	require.Equal(t, "ABO-000001", first)

	second, err := svc.Next(ctx, SeriesAbono)
	require.NoError(t, err)
	require.Equal(t, "ABO-000002", second)

	other, err := svc.Next(ctx, SeriesQuotation)
	require.NoError(t, err)
	require.Equal(t, "COT-000001", other)
}
