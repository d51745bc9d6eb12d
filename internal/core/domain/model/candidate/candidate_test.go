package candidate_test

import (
	"testing"
	"time"

	"helperhub/internal/core/domain/model/candidate"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestNewCandidate(t *testing.T) {
	t.Run("should create applied candidate", func(t *testing.T) {
		c, err := candidate.NewCandidate(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), at)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, candidate.StatusApplied, c.Status())
		assert.True(t, c.IsActive())
	})

	t.Run("should require order and helper", func(t *testing.T) {
		_, err := candidate.NewCandidate(kernel.NewUUID(), kernel.UUID{}, kernel.UUID{}, at)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "order")
		assert.Contains(t, err.Error(), "helper")
	})
}

func TestCheckCapacity(t *testing.T) {
	for active := 0; active < candidate.MaxActive; active++ {
		assert.NoError(t, candidate.CheckCapacity(active))
	}
	assert.ErrorIs(t, candidate.CheckCapacity(candidate.MaxActive), candidate.ErrCapReached)
	assert.ErrorIs(t, candidate.CheckCapacity(candidate.MaxActive+1), candidate.ErrCapReached)
}

func TestCandidate_StatusChanges(t *testing.T) {
	newApplied := func(t *testing.T) *candidate.Candidate {
		c, err := candidate.NewCandidate(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), at)
		require.NoError(t, err)
		return c
	}
	later := at.Add(time.Hour)

	t.Run("select then reject", func(t *testing.T) {
		c := newApplied(t)

		require.NoError(t, c.Select(later))
		assert.Equal(t, candidate.StatusSelected, c.Status())
		assert.Equal(t, later, c.UpdatedAt())

		require.NoError(t, c.Reject(later))
		assert.Equal(t, candidate.StatusRejected, c.Status())
		assert.False(t, c.IsActive())
	})

	t.Run("cannot select twice", func(t *testing.T) {
		c := newApplied(t)
		require.NoError(t, c.Select(later))

		assert.ErrorIs(t, c.Select(later), candidate.ErrInvalidStatus)
	})

	t.Run("ended candidates stay ended", func(t *testing.T) {
		c := newApplied(t)
		require.NoError(t, c.AutoCancel(later))

		assert.Equal(t, candidate.StatusAutoCancelled, c.Status())
		assert.ErrorIs(t, c.Reject(later), candidate.ErrInvalidStatus)
		assert.ErrorIs(t, c.Select(later), candidate.ErrInvalidStatus)
	})
}

func TestRestoreCandidate(t *testing.T) {
	_, err := candidate.RestoreCandidate(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "withdrawn", at, at)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	c, err := candidate.RestoreCandidate(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), candidate.StatusSelected, at, at)
	require.NoError(t, err)
	assert.Equal(t, candidate.StatusSelected, c.Status())
}
