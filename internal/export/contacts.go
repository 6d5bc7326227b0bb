package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/hpde-analytics/internal/config"
)

// Attendee fields of the roster payload.
const (
	attendeeFirstName = "firstName"
	attendeeLastName  = "lastName"
	attendeeEmail     = "email"
	attendeeMemberID  = "memberId"
	attendeeStatus    = "status"
)

// AttendeesVCF renders the roster as vCards. Attendees with neither a name
// nor an email are skipped. It returns nil when no card was written.
func AttendeesVCF(attendees []map[string]any) ([]byte, int, error) {
	var buf bytes.Buffer
	enc := vcard.NewEncoder(&buf)

	count := 0
	for _, a := range attendees {
		first, last := text(a[attendeeFirstName]), text(a[attendeeLastName])
		email := text(a[attendeeEmail])

		formatted := strings.TrimSpace(first + " " + last)
		if formatted == "" {
			formatted = email
		}
		if formatted == "" {
			continue
		}

		card := make(vcard.Card)
		card.SetValue(vcard.FieldVersion, config.VCardVersion)
		card.SetValue(vcard.FieldFormattedName, formatted)
		card.SetName(&vcard.Name{GivenName: first, FamilyName: last})
		if email != "" {
			card.SetValue(vcard.FieldEmail, email)
		}
		if id := text(a[attendeeMemberID]); id != "" {
			card.SetValue(vcard.FieldUID, fmt.Sprintf(config.FormatUID, id, config.ICalDomain))
		}
		if status := text(a[attendeeStatus]); status != "" {
			card.SetValue(vcard.FieldNote, status)
		}

		if err := enc.Encode(card); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
		count++
	}

	if count == 0 {
		return nil, 0, nil
	}
	return buf.Bytes(), count, nil
}
