package msr

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Me returns the authenticated user's profile and organizations.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	return c.Get(ctx, config.PathMe, false)
}

// OrganizationCalendar returns the event calendar of orgID, or of the
// client's organization when orgID is empty.
func (c *Client) OrganizationCalendar(ctx context.Context, orgID string) (map[string]any, error) {
	if orgID == "" {
		orgID = c.OrganizationID
	}
	if orgID == "" {
		return nil, ErrOrgIDRequired
	}
	return c.Get(ctx, fmt.Sprintf(config.PathCalendar, orgID), true)
}

// EventEntryList returns the segment/group entry list of an event.
func (c *Client) EventEntryList(ctx context.Context, eventID string) (map[string]any, error) {
	return c.eventEndpoint(ctx, config.PathEntryList, eventID)
}

// EventAttendees returns the attendee roster of an event.
func (c *Client) EventAttendees(ctx context.Context, eventID string) (map[string]any, error) {
	return c.eventEndpoint(ctx, config.PathAttendees, eventID)
}

// EventAssignments returns the assignments, including vehicle and tire data.
func (c *Client) EventAssignments(ctx context.Context, eventID string) (map[string]any, error) {
	return c.eventEndpoint(ctx, config.PathAssignments, eventID)
}

// TimingFeed returns the timing and scoring feed of an event.
func (c *Client) TimingFeed(ctx context.Context, eventID string) (map[string]any, error) {
	return c.eventEndpoint(ctx, config.PathTimingFeed, eventID)
}

func (c *Client) eventEndpoint(ctx context.Context, pathFormat, eventID string) (map[string]any, error) {
	if eventID == "" {
		return nil, ErrEventIDRequired
	}
	return c.Get(ctx, fmt.Sprintf(pathFormat, eventID), true)
}

// FetchAll gathers every endpoint for field discovery. The profile and
// calendar come first; without an eventID the first calendar event is
// used. Event endpoints are fetched concurrently. A failing endpoint is
// stored as {"error": message} instead of aborting.
func (c *Client) FetchAll(ctx context.Context, eventID string) map[string]any {
	log := zap.L().With(zap.String(config.LogKeyComponent, config.CompClient))
	results := make(map[string]any)

	store := func(key string, data map[string]any, err error) {
		if err != nil {
			log.Warn(config.MsgEndpointFailed, zap.String(config.LogKeyEndpoint, key), zap.Error(err))
			results[key] = map[string]any{config.ErrorKey: err.Error()}
			return
		}
		results[key] = data
	}

	me, err := c.Me(ctx)
	store(config.EndpointMe, me, err)

	if c.OrganizationID != "" {
		cal, err := c.OrganizationCalendar(ctx, "")
		store(config.EndpointCalendar, cal, err)

		if err == nil && eventID == "" {
			eventID = FirstEventID(cal)
			if eventID != "" {
				log.Info(config.MsgFirstEvent, zap.String(config.LogKeyEventID, eventID))
			}
		}
	}

	if eventID == "" {
		log.Info(config.MsgNoEvent)
		return results
	}

	endpoints := []struct {
		key   string
		fetch func(context.Context, string) (map[string]any, error)
	}{
		{config.EndpointEntryList, c.EventEntryList},
		{config.EndpointAttendees, c.EventAttendees},
		{config.EndpointAssignments, c.EventAssignments},
		{config.EndpointTiming, c.TimingFeed},
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, ep := range endpoints {
		g.Go(func() error {
			data, err := ep.fetch(ctx, eventID)
			mu.Lock()
			defer mu.Unlock()
			store(ep.key, data, err)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// FirstEventID returns the id of the first event in a calendar payload.
func FirstEventID(calendar map[string]any) string {
	events, _ := calendar[config.EventsKey].([]any)
	if len(events) == 0 {
		return ""
	}
	first, _ := events[0].(map[string]any)
	return idString(first[config.IDKey])
}

// DefaultOrganization returns the id of the first organization in a
// profile payload, or "".
func DefaultOrganization(profile map[string]any) string {
	orgs, _ := profile[config.OrgsKey].([]any)
	if len(orgs) == 0 {
		return ""
	}
	first, _ := orgs[0].(map[string]any)
	return idString(first[config.IDKey])
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// Profile extracts the profile object from a /rest/me payload, which may
// or may not be nested under "profile".
func Profile(me map[string]any) map[string]any {
	if p, ok := me[config.ProfileKey].(map[string]any); ok {
		return p
	}
	return me
}
