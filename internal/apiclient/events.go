package apiclient

import (
	"context"
	"net/url"

	"github.com/gonote/gonote/internal/models"
)

// ListEvents fetches the user's own events plus system events.
func (c *Client) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	return c.listEvents(ctx, "/events")
}

func (c *Client) listEvents(ctx context.Context, path string) ([]models.CalendarEvent, error) {
	var resp []wireEvent
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.CalendarEvent, 0, len(resp))
	for _, w := range resp {
		out = append(out, w.toModel())
	}
	return out, nil
}

// CreateEvent persists an event. The server assigns the id.
func (c *Client) CreateEvent(ctx context.Context, e models.CalendarEvent) (*models.CalendarEvent, error) {
	var resp wireEvent
	if err := c.do(ctx, "POST", "/events", eventToWire(e), &resp); err != nil {
		return nil, err
	}
	out := resp.toModel()
	return &out, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/events/"+url.PathEscape(id), nil, nil)
}
