package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osboard/internal/model"
)

func TestOrderRowMapping(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		o := sample("a", time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC))
		got, err := fromModel(o).toModel(now)
		require.NoError(t, err)
		assert.Equal(t, o, got)
	})

	t.Run("empty optional fields are stored as NULL", func(t *testing.T) {
		o := sample("a", now)
		o.Salesperson, o.Notes = "", ""
		r := fromModel(o)
		assert.False(t, r.Salesperson.Valid)
		assert.False(t, r.Notes.Valid)
	})

	t.Run("missing created_at defaults to now", func(t *testing.T) {
		r := orderRow{
			ID:             "x",
			OSNumber:       "1",
			StoreName:      "S",
			Deadline:       now.In(time.FixedZone("BRT", -3*3600)),
			DeliveryMethod: "PICKUP",
			Status:         "COMPLETED",
		}
		got, err := r.toModel(now)
		require.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), got.CreatedAt)
		assert.Equal(t, model.StatusCompleted, got.Status)
		assert.Equal(t, time.UTC, got.Deadline.Location())
		assert.True(t, got.Deadline.Equal(now))
	})

	t.Run("stored created_at is converted to millis", func(t *testing.T) {
		created := time.Date(2025, 5, 30, 8, 0, 0, 123_000_000, time.UTC)
		r := orderRow{
			ID: "x", OSNumber: "1", StoreName: "S", Deadline: now,
			DeliveryMethod: "DELIVERY", Status: "PENDING",
			CreatedAt: sql.NullTime{Time: created, Valid: true},
		}
		got, err := r.toModel(now)
		require.NoError(t, err)
		assert.Equal(t, created.UnixMilli(), got.CreatedAt)
	})

	t.Run("unknown enum values are rejected", func(t *testing.T) {
		_, err := orderRow{DeliveryMethod: "PICKUP", Status: "ARCHIVED"}.toModel(now)
		assert.ErrorIs(t, err, model.ErrUnknownStatus)

		_, err = orderRow{DeliveryMethod: "BOAT", Status: "PENDING"}.toModel(now)
		assert.ErrorIs(t, err, model.ErrUnknownDeliveryMethod)
	})
}
