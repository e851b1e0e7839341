//go:build integration

package view_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynaform/internal/view"
	"dynaform/pkg/testutil/containers"
)

func TestPostgresEventStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := view.NewPostgresEventStore(pg.DB)
	ctx := context.Background()

	newEvent := func(formID, userID, ip string, at time.Time) view.Event {
		return view.Event{
			ID:        uuid.NewString(),
			FormID:    formID,
			UserID:    userID,
			IPAddress: ip,
			ViewedAt:  at,
		}
	}

	t.Run("user and IP channels never merge", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx, "form_views"))
		now := time.Now().UTC().Truncate(time.Microsecond)
		since := now.Add(-5 * time.Minute)

		require.NoError(t, store.Append(ctx, newEvent("f1", "user-1", "203.0.113.7", now)))

		byUser, err := store.MostRecentByFormAndUser(ctx, "f1", "user-1", since)
		require.NoError(t, err)
		require.NotNil(t, byUser)
		assert.Equal(t, "user-1", byUser.UserID)

		// The same IP queried on the anonymous channel must not match the
		// attributed event.
		byIP, err := store.MostRecentByFormAndIP(ctx, "f1", "203.0.113.7", since)
		require.NoError(t, err)
		assert.Nil(t, byIP)
	})

	t.Run("events outside the window are excluded", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx, "form_views"))
		now := time.Now().UTC().Truncate(time.Microsecond)

		require.NoError(t, store.Append(ctx, newEvent("f1", "user-1", "", now.Add(-10*time.Minute))))

		got, err := store.MostRecentByFormAndUser(ctx, "f1", "user-1", now.Add(-5*time.Minute))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("anonymous events match on IP only", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx, "form_views"))
		now := time.Now().UTC().Truncate(time.Microsecond)
		since := now.Add(-5 * time.Minute)

		require.NoError(t, store.Append(ctx, newEvent("f1", "", "203.0.113.7", now)))

		byIP, err := store.MostRecentByFormAndIP(ctx, "f1", "203.0.113.7", since)
		require.NoError(t, err)
		require.NotNil(t, byIP)
		assert.Equal(t, "203.0.113.7", byIP.IPAddress)

		other, err := store.MostRecentByFormAndIP(ctx, "f1", "198.51.100.9", since)
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("TopNAcrossForms orders by recency and limits", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx, "form_views"))
		now := time.Now().UTC().Truncate(time.Microsecond)

		for i := 0; i < 5; i++ {
			formID := "f1"
			if i%2 == 0 {
				formID = "f2"
			}
			require.NoError(t, store.Append(ctx,
				newEvent(formID, "", "203.0.113.7", now.Add(-time.Duration(i)*time.Hour))))
		}
		// A form outside the requested set must not appear.
		require.NoError(t, store.Append(ctx, newEvent("f3", "", "203.0.113.7", now)))

		got, err := store.TopNAcrossForms(ctx, []string{"f1", "f2"}, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].ViewedAt.After(got[i-1].ViewedAt), "events must be in descending recency")
		}
		for _, e := range got {
			assert.NotEqual(t, "f3", e.FormID)
		}
	})
}
