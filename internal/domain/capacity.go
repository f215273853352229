package domain

import "fmt"

// ConfirmedCount returns how many participants have asistenciaConfirmada set.
func ConfirmedCount(participantes []Participant) int {
	n := 0
	for _, p := range participantes {
		if p.AsistenciaConfirmada {
			n++
		}
	}
	return n
}

// CheckCapacityEdit is the pre-check on raw input: when both capacity fields are supplied,
// capacidadMaxima must be strictly greater than lugaresDisponibles. It runs before any roster counting.
func CheckCapacityEdit(capacidadMaxima, lugaresDisponibles *int) error {
	if capacidadMaxima == nil || lugaresDisponibles == nil {
		return nil
	}
	if *capacidadMaxima <= *lugaresDisponibles {
		return fmt.Errorf("%w (capacidadMaxima=%d, lugaresDisponibles=%d)", ErrInconsistentCapacityEdit, *capacidadMaxima, *lugaresDisponibles)
	}
	return nil
}

// Reconcile returns the available slots for a roster under the given capacity:
// capacidadMaxima minus confirmed participants. The roster size is checked first, so an oversized
// roster reports ErrRosterExceedsCapacity whether or not its participants are confirmed.
// It never returns a negative count.
func Reconcile(capacidadMaxima int, participantes []Participant) (int, error) {
	if len(participantes) > capacidadMaxima {
		return 0, fmt.Errorf("%w: %d participants, capacidadMaxima %d", ErrRosterExceedsCapacity, len(participantes), capacidadMaxima)
	}
	available := capacidadMaxima - ConfirmedCount(participantes)
	if available < 0 {
		return 0, fmt.Errorf("%w: %d confirmed, capacidadMaxima %d", ErrCapacityExceeded, ConfirmedCount(participantes), capacidadMaxima)
	}
	return available, nil
}

// ReconcileEdit merges in into current and recomputes LugaresDisponibles on the result.
// A caller-supplied lugaresDisponibles only feeds CheckCapacityEdit; the stored value is always derived.
func ReconcileEdit(current *Event, in *EventInput) (*Event, error) {
	if err := CheckCapacityEdit(in.CapacidadMaxima, in.LugaresDisponibles); err != nil {
		return nil, err
	}
	next := in.Apply(current)
	available, err := Reconcile(next.CapacidadMaxima, next.Participantes)
	if err != nil {
		return nil, err
	}
	next.LugaresDisponibles = available
	return next, nil
}
