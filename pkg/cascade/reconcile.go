package cascade

import (
	"context"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/logx"
)

// backfillState guarda el resultado del lookup de reconciliación.
// The lookup runs at most once per (village, cleared kecamatan) condition;
// any parent or district change re-arms it by resetting to idle.
type backfillState int

const (
	backfillIdle backfillState = iota
	backfillPending
	backfillResolved
	backfillFailed
)

// maybeBackfill resuelve el kecamatan faltante a partir de la kelurahan.
//
// A saved address holds province, district and village but no kecamatan, so
// an opened record would show a permanently disabled village selector. The
// backfill looks the village up once, adopts its parent kecamatan as the
// local selection and repopulates the village list. On failure it gives up
// silently: the user can still reach the same state by picking the kecamatan
// by hand, which re-populates the villages through the normal path.
func (c *Controller) maybeBackfill(ctx context.Context) {
	c.mu.Lock()
	if c.value.Village == nil || !c.subDistrict.IsZero() || c.backfill != backfillIdle {
		c.mu.Unlock()
		return
	}
	c.backfill = backfillPending
	villageID := *c.value.Village
	c.mu.Unlock()

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		ref, err := c.dir.Village(ctx, villageID)

		c.mu.Lock()
		if c.backfill != backfillPending {
			// a selection change re-armed or superseded this lookup
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.backfill = backfillFailed
			c.mu.Unlock()
			logx.WithFields(logx.Fields{
				"village_id": villageID,
				"error":      err.Error(),
			}).Debug("Sub-district backfill failed, leaving selection manual")
			return
		}

		// the village may have changed hands while the lookup was in flight
		if c.value.Village == nil || *c.value.Village != villageID {
			c.backfill = backfillIdle
			c.mu.Unlock()
			return
		}

		c.subDistrict = ref.DistrictID
		c.backfill = backfillResolved
		c.mu.Unlock()

		// village selector unlocks now that its request key exists
		c.refresh(ctx, c.villages, ref.DistrictID)
	}()
}
