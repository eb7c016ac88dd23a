package cratesio

import "time"

// IndexPath exports indexPath for testing.
var IndexPath = indexPath

// WithClock replaces the clock used for cache freshness.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}
