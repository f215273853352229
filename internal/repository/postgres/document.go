package postgres

import (
	"encoding/json"
	"time"

	"eventosapi/internal/domain"
)

// eventDocument is the stored shape of an event in the eventos collection.
// Dates are epoch seconds; the id lives in its own column, not in the document.
type eventDocument struct {
	Titulo             string                `json:"titulo"`
	FechaInicio        *int64                `json:"fechaInicio,omitempty"`
	FechaFin           *int64                `json:"fechaFin,omitempty"`
	CapacidadMaxima    int                   `json:"capacidadMaxima"`
	LugaresDisponibles int                   `json:"lugaresDisponibles"`
	Participantes      []participantDocument `json:"participantes"`
}

type participantDocument struct {
	Correo               string `json:"correo"`
	AsistenciaConfirmada bool   `json:"asistenciaConfirmada"`
}

func epochSeconds(t time.Time) *int64 {
	sec := t.Unix()
	return &sec
}

func toParticipantDocuments(ps []domain.Participant) []participantDocument {
	out := make([]participantDocument, 0, len(ps))
	for _, p := range ps {
		out = append(out, participantDocument{Correo: p.Correo, AsistenciaConfirmada: p.AsistenciaConfirmada})
	}
	return out
}

func newEventDocument(e *domain.Event) eventDocument {
	doc := eventDocument{
		Titulo:             e.Titulo,
		CapacidadMaxima:    e.CapacidadMaxima,
		LugaresDisponibles: e.LugaresDisponibles,
		Participantes:      toParticipantDocuments(e.Participantes),
	}
	if !e.FechaInicio.IsZero() {
		doc.FechaInicio = epochSeconds(e.FechaInicio)
	}
	if e.FechaFin != nil {
		doc.FechaFin = epochSeconds(*e.FechaFin)
	}
	return doc
}

// decodeEvent builds a domain.Event from a stored id and raw document.
// A document without fechaInicio decodes with a zero FechaInicio.
func decodeEvent(id string, raw []byte) (*domain.Event, error) {
	var doc eventDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	e := &domain.Event{
		ID:                 id,
		Titulo:             doc.Titulo,
		CapacidadMaxima:    doc.CapacidadMaxima,
		LugaresDisponibles: doc.LugaresDisponibles,
		Participantes:      make([]domain.Participant, 0, len(doc.Participantes)),
	}
	if doc.FechaInicio != nil {
		e.FechaInicio = domain.FromEpochSeconds(*doc.FechaInicio)
	}
	if doc.FechaFin != nil {
		fin := domain.FromEpochSeconds(*doc.FechaFin)
		e.FechaFin = &fin
	}
	for _, p := range doc.Participantes {
		e.Participantes = append(e.Participantes, domain.Participant{Correo: p.Correo, AsistenciaConfirmada: p.AsistenciaConfirmada})
	}
	return e, nil
}

// encodePatch renders only the fields present in the patch, for a jsonb merge (doc || patch).
func encodePatch(p *domain.EventPatch) ([]byte, error) {
	fields := make(map[string]any)
	if p.Titulo != nil {
		fields["titulo"] = *p.Titulo
	}
	if p.FechaInicio != nil {
		fields["fechaInicio"] = p.FechaInicio.Unix()
	}
	if p.FechaFin != nil {
		fields["fechaFin"] = p.FechaFin.Unix()
	}
	if p.CapacidadMaxima != nil {
		fields["capacidadMaxima"] = *p.CapacidadMaxima
	}
	if p.LugaresDisponibles != nil {
		fields["lugaresDisponibles"] = *p.LugaresDisponibles
	}
	if p.Participantes != nil {
		fields["participantes"] = toParticipantDocuments(p.Participantes)
	}
	return json.Marshal(fields)
}
