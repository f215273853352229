package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"eventosapi/internal/domain"
)

const productID = "-//eventosapi//ES"

// Participation states written on ATTENDEE properties.
const (
	partStatAccepted    = "ACCEPTED"
	partStatNeedsAction = "NEEDS-ACTION"
)

type icsEncoder struct {
	domain string
	now    func() time.Time
}

// NewICSEncoder returns a CalendarEncoder producing a VCALENDAR with one VEVENT. uidDomain is appended
// to the event id to build a globally unique UID.
func NewICSEncoder(uidDomain string) domain.CalendarEncoder {
	return &icsEncoder{domain: uidDomain, now: time.Now}
}

func (e *icsEncoder) Encode(w io.Writer, event *domain.Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, e.toVEvent(event))

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ics: %w", err)
	}
	return nil
}

func (e *icsEncoder) toVEvent(event *domain.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.uid(event.ID))
	ve.Props.SetText(ical.PropSummary, event.Titulo)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, e.now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.FechaInicio.UTC())
	if event.FechaFin != nil {
		ve.Props.SetDateTime(ical.PropDateTimeEnd, event.FechaFin.UTC())
	}

	for _, p := range event.Participantes {
		attendee := ical.NewProp(ical.PropAttendee)
		attendee.SetText(fmt.Sprintf("mailto:%s", p.Correo))
		status := partStatNeedsAction
		if p.AsistenciaConfirmada {
			status = partStatAccepted
		}
		attendee.Params.Set(ical.ParamParticipationStatus, status)
		ve.Props.Add(attendee)
	}
	return ve
}

func (e *icsEncoder) uid(id string) string {
	if e.domain == "" {
		return id
	}
	return id + "@" + e.domain
}
