// Package activities implements the forward-paging cursor the sync
// engine uses to walk the vendor's newest-first activities list and
// group entries by date.
package activities

import (
	"context"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

// Fetcher retrieves one page of the activities list, newest-first,
// starting at offset.
type Fetcher interface {
	FetchBatch(ctx context.Context, offset, limit int) ([]models.Activity, error)
}

// Cursor buffers activities fetched from a Fetcher and exposes them
// grouped by date. It must be walked with strictly non-increasing
// dates — ActivitiesForDate assumes the caller iterates newest→oldest,
// since the underlying list is newest-first and the cursor never looks
// backward.
type Cursor struct {
	fetch     Fetcher
	batchSize int

	buffer      []models.Activity // ordered, newest-first
	batchOffset int
	hasMore     bool

	current     *models.Activity
	currentDate string // YYYY-MM-DD, derived from current.ActivityDate
}

// NewCursor builds a Cursor over fetch, paging batchSize activities at
// a time.
func NewCursor(fetch Fetcher, batchSize int) *Cursor {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Cursor{fetch: fetch, batchSize: batchSize, hasMore: true}
}

// Initialize fetches the first batch and positions the cursor at the
// newest activity. Must be called before ActivitiesForDate.
func (c *Cursor) Initialize(ctx context.Context) error {
	if err := c.loadNextBatch(ctx); err != nil {
		return err
	}
	c.advance()
	return nil
}

// Reset clears all state and re-initializes. Mandatory between
// independent sync sessions — reusing a cursor across sessions without
// resetting silently skips dates, since the buffer and offset are
// session-scoped.
func (c *Cursor) Reset(ctx context.Context) error {
	c.buffer = nil
	c.batchOffset = 0
	c.hasMore = true
	c.current = nil
	c.currentDate = ""
	return c.Initialize(ctx)
}

func (c *Cursor) loadNextBatch(ctx context.Context) error {
	if !c.hasMore {
		return nil
	}
	batch, err := c.fetch.FetchBatch(ctx, c.batchOffset, c.batchSize)
	if err != nil {
		c.hasMore = false
		return fmt.Errorf("activities: fetch batch at offset %d: %w", c.batchOffset, err)
	}
	c.batchOffset += len(batch)
	if len(batch) < c.batchSize {
		c.hasMore = false
	}
	c.buffer = append(c.buffer, batch...)
	return nil
}

// advance pops the next activity off the buffer into current. Callers
// needing more data once the buffer is empty use advanceAndRefill
// instead, which fetches before popping.
func (c *Cursor) advance() {
	if len(c.buffer) == 0 {
		c.current = nil
		c.currentDate = ""
		return
	}
	next := c.buffer[0]
	c.buffer = c.buffer[1:]
	c.current = &next
	c.currentDate = extractActivityDate(&next)
}

func (c *Cursor) advanceAndRefill(ctx context.Context) error {
	if len(c.buffer) == 0 && c.hasMore {
		if err := c.loadNextBatch(ctx); err != nil {
			return err
		}
	}
	c.advance()
	return nil
}

func extractActivityDate(a *models.Activity) string {
	if a.ActivityDate != "" {
		return a.ActivityDate
	}
	if a.StartTime != nil && len(*a.StartTime) >= 10 {
		return (*a.StartTime)[:10]
	}
	return ""
}

// ActivitiesForDate consumes from the buffer while the current
// activity's date is newer than target (skipping forward), collects
// while it equals target, and stops once it is older than target —
// leaving the remaining (older) activities in the buffer for a future
// call with an earlier target. This is only correct when callers
// iterate target dates newest→oldest.
func (c *Cursor) ActivitiesForDate(ctx context.Context, target string) ([]models.Activity, error) {
	var result []models.Activity

	for {
		if c.current == nil {
			if !c.hasMore {
				return result, nil
			}
			if err := c.advanceAndRefill(ctx); err != nil {
				return result, err
			}
			if c.current == nil {
				return result, nil
			}
		}

		switch {
		case c.currentDate > target:
			if err := c.advanceAndRefill(ctx); err != nil {
				return result, err
			}
		case c.currentDate == target:
			result = append(result, *c.current)
			if err := c.advanceAndRefill(ctx); err != nil {
				return result, err
			}
		default: // currentDate < target: older activities, leave buffered
			return result, nil
		}
	}
}
