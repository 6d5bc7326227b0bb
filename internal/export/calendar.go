package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/hpde-analytics/internal/config"
)

// Calendar event fields of the organization calendar payload.
const (
	eventName      = "name"
	eventStart     = "start"
	eventEnd       = "end"
	eventVenue     = "venue"
	eventVenueName = "name"
	eventVenueCity = "city"
	eventDetailURI = "detailuri"
)

// CalendarICS renders calendar events as all-day VEVENTs. Events without a
// parseable start date are skipped. It returns the encoded calendar and
// the number of events, or nil when no event qualified.
func CalendarICS(events []map[string]any, now time.Time) ([]byte, int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	for _, e := range events {
		start, ok := parseDay(e[eventStart])
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.Set(dtStamp)
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, eventUID(e, start), config.ICalDomain))
		event.Props.SetText(config.PropSummary, text(e[eventName]))

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(start)
		event.Props.Set(dtStart)

		// DTEND is exclusive for all-day events.
		end, ok := parseDay(e[eventEnd])
		if !ok || end.Before(start) {
			end = start
		}
		dtEnd := ical.NewProp(config.PropDTEnd)
		dtEnd.SetDate(end.AddDate(0, 0, 1))
		event.Props.Set(dtEnd)

		if loc := venue(e); loc != "" {
			event.Props.SetText(config.PropLocation, loc)
		}
		if uri := text(e[eventDetailURI]); uri != "" {
			event.Props.SetText(config.PropURL, uri)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return nil, 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), len(cal.Children), nil
}

// parseDay reads the date part of "2024-05-04" or "2024-05-04T08:00:00".
func parseDay(v any) (time.Time, bool) {
	s, _ := v.(string)
	if len(s) < len(config.DateLayoutISO) {
		return time.Time{}, false
	}
	t, err := time.Parse(config.DateLayoutISO, s[:len(config.DateLayoutISO)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func eventUID(e map[string]any, start time.Time) string {
	if id := text(e[config.IDKey]); id != "" {
		return id
	}
	return start.Format(config.DateLayoutISO) + "-" + strings.ToLower(strings.ReplaceAll(text(e[eventName]), " ", "-"))
}

func venue(e map[string]any) string {
	v, _ := e[eventVenue].(map[string]any)
	parts := make([]string, 0, 2)
	for _, k := range []string{eventVenueName, eventVenueCity} {
		if s := text(v[k]); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func text(v any) string {
	return strings.TrimSpace(cellText(v))
}
