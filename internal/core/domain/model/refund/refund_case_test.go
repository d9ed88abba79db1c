package refund_test

import (
	"testing"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requestedAt = time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)

func newCase(t *testing.T) *refund.RefundCase {
	t.Helper()
	c, err := refund.NewRefundCase(
		kernel.NewUUID(), kernel.NewUUID(), "buyer-1", "arrived broken",
		[]string{"evidence/1"}, kernel.MustMoney("42.00"), requestedAt,
	)
	require.NoError(t, err)
	return c
}

func TestNewRefundCase(t *testing.T) {
	t.Run("should open a requested case", func(t *testing.T) {
		c := newCase(t)

		assert.Equal(t, refund.Requested, c.State())
		assert.True(t, c.IsOpen())
		assert.Nil(t, c.Resolution())
		assert.Equal(t, []string{"evidence/1"}, c.Evidence())
		assert.Equal(t, "42.00", c.Amount().String())
	})

	t.Run("should reject more than five attachments", func(t *testing.T) {
		evidence := []string{"a", "b", "c", "d", "e", "f"}

		c, err := refund.NewRefundCase(kernel.NewUUID(), kernel.NewUUID(), "buyer-1", "why", evidence, kernel.Zero(), requestedAt)

		require.Error(t, err)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, errs.ErrTooManyAttachments)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("should require a reason", func(t *testing.T) {
		_, err := refund.NewRefundCase(kernel.NewUUID(), kernel.NewUUID(), "buyer-1", "", nil, kernel.Zero(), requestedAt)

		assert.ErrorIs(t, err, refund.ErrReasonIsRequired)
	})
}

func TestRefundCase_Decisions(t *testing.T) {
	t.Run("approve then complete", func(t *testing.T) {
		c := newCase(t)

		changed, err := c.Approve("admin-1", "ok", requestedAt.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, refund.Approved, c.State())
		require.NotNil(t, c.Resolution())
		assert.Equal(t, "admin-1", c.Resolution().ApproverID)

		changed, err = c.Complete(requestedAt.Add(2 * time.Hour))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.NotNil(t, c.CompletedAt())

		changed, err = c.Complete(requestedAt.Add(3 * time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, int64(2), c.Version())
	})

	t.Run("reject closes the case", func(t *testing.T) {
		c := newCase(t)

		changed, err := c.Reject("seller-1", "used item", requestedAt)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.False(t, c.IsOpen())

		_, err = c.Approve("admin-1", "", requestedAt)
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("complete requires approval", func(t *testing.T) {
		c := newCase(t)

		_, err := c.Complete(requestedAt)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, refund.Requested, c.State())
	})

	t.Run("approve twice is a no-op", func(t *testing.T) {
		c := newCase(t)
		_, err := c.Approve("admin-1", "", requestedAt)
		require.NoError(t, err)

		changed, err := c.Approve("admin-2", "", requestedAt)

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "admin-1", c.Resolution().ApproverID)
	})
}

func TestRestoreRefundCase(t *testing.T) {
	c := newCase(t)
	_, err := c.Approve("admin-1", "fine", requestedAt)
	require.NoError(t, err)

	restored, err := refund.RestoreRefundCase(c.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot(), restored.Snapshot())

	s := c.Snapshot()
	s.Resolution = nil
	_, err = refund.RestoreRefundCase(s)
	assert.ErrorIs(t, err, refund.ErrResolutionIsInvalid)
}

func TestParseDecision(t *testing.T) {
	d, err := refund.ParseDecision("approve")
	require.NoError(t, err)
	assert.Equal(t, refund.DecisionApprove, d)

	_, err = refund.ParseDecision("maybe")
	assert.Error(t, err)
}

func TestRefundCase_SettlementClaim(t *testing.T) {
	approved := func(t *testing.T) *refund.RefundCase {
		t.Helper()
		c := newCase(t)
		_, err := c.Approve("admin-1", "", requestedAt.Add(time.Hour))
		require.NoError(t, err)
		return c
	}
	claimedAt := requestedAt.Add(2 * time.Hour)

	t.Run("should hold the case until the lease ends", func(t *testing.T) {
		c := approved(t)
		version := c.Version()

		require.NoError(t, c.ClaimSettlement(claimedAt, time.Minute))

		assert.Equal(t, version+1, c.Version())
		require.NotNil(t, c.SettlingUntil())
		assert.Equal(t, claimedAt.Add(time.Minute), *c.SettlingUntil())

		err := c.ClaimSettlement(claimedAt.Add(30*time.Second), time.Minute)
		require.ErrorIs(t, err, errs.ErrSettlementInProgress)
		assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	})

	t.Run("should let a new caller take over an expired lease", func(t *testing.T) {
		c := approved(t)
		require.NoError(t, c.ClaimSettlement(claimedAt, time.Minute))

		require.NoError(t, c.ClaimSettlement(claimedAt.Add(2*time.Minute), time.Minute))

		assert.Equal(t, claimedAt.Add(3*time.Minute), *c.SettlingUntil())
	})

	t.Run("should free the case on release", func(t *testing.T) {
		c := approved(t)
		require.NoError(t, c.ClaimSettlement(claimedAt, time.Minute))

		changed, err := c.ReleaseSettlement()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Nil(t, c.SettlingUntil())
		require.NoError(t, c.ClaimSettlement(claimedAt, time.Minute))

		changed, err = approved(t).ReleaseSettlement()
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("should clear the claim on completion", func(t *testing.T) {
		c := approved(t)
		require.NoError(t, c.ClaimSettlement(claimedAt, time.Minute))

		_, err := c.Complete(claimedAt.Add(time.Second))
		require.NoError(t, err)

		assert.Nil(t, c.SettlingUntil())
		assert.ErrorIs(t, c.ClaimSettlement(claimedAt, time.Minute), errs.ErrIllegalTransition)
	})

	t.Run("should refuse cases that are not approved", func(t *testing.T) {
		assert.ErrorIs(t, newCase(t).ClaimSettlement(claimedAt, time.Minute), errs.ErrIllegalTransition)
	})

	t.Run("should survive a snapshot round trip", func(t *testing.T) {
		c := approved(t)
		require.NoError(t, c.ClaimSettlement(claimedAt, time.Minute))

		restored, err := refund.RestoreRefundCase(c.Snapshot())
		require.NoError(t, err)

		require.NotNil(t, restored.SettlingUntil())
		assert.Equal(t, *c.SettlingUntil(), *restored.SettlingUntil())
	})
}
