package stripe

import (
	"context"

	stripe "github.com/stripe/stripe-go/v81"

	"paysentry.backend/internal/domain/repositories"
)

// ListEvents fetches one page of recent events matching the query.
// Paging stays caller-driven: autopagination is disabled and the
// page's has_more / last id are surfaced for the next cursor.
func (c *Client) ListEvents(ctx context.Context, query repositories.EventListQuery) (*repositories.EventPage, error) {
	params := &stripe.EventListParams{}
	params.Context = ctx
	params.Single = true
	if query.Limit > 0 {
		params.Limit = stripe.Int64(query.Limit)
	}
	if query.StartingAfterEvent != "" {
		params.StartingAfter = stripe.String(query.StartingAfterEvent)
	}
	if query.CreatedAfterUnix > 0 {
		params.CreatedRange = &stripe.RangeQueryParams{
			GreaterThanOrEqual: query.CreatedAfterUnix,
		}
	}
	for _, eventType := range query.Types {
		params.Types = append(params.Types, stripe.String(eventType))
	}

	page := &repositories.EventPage{}
	iter := c.api.Events.List(params)
	for iter.Next() {
		event := iter.Event()
		page.LastEventID = event.ID

		parsed, err := ParseEvent(event)
		if err != nil {
			// An event the provider returned without id/type cannot be
			// converged; skip it rather than abort the page.
			continue
		}
		page.Events = append(page.Events, parsed)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if meta := iter.Meta(); meta != nil {
		page.HasMore = meta.HasMore
	}
	return page, nil
}
