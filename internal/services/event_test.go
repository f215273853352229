package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"eventosapi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory EventRepository for tests. Modify holds the mutex for the whole
// read-modify-write, like the row lock of the Postgres store.
type fakeEventRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Event
	order   []string
	nextID  int
	err     error // if set, every call returns this error
	modifyN int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) seed(e *domain.Event) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e.Clone()
	f.order = append(f.order, e.ID)
	return e
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0, len(f.order))
	for _, id := range f.order {
		if e, ok := f.byID[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.seed(e)
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	merged := patch.Merge(e)
	f.byID[id] = merged
	return merged.Clone(), nil
}

func (f *fakeEventRepo) Modify(ctx context.Context, id string, fn domain.ModifyFunc) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.modifyN++
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch, err := fn(e.Clone())
	if err != nil {
		return nil, err
	}
	if patch == nil || patch.IsEmpty() {
		return e.Clone(), nil
	}
	merged := patch.Merge(e)
	f.byID[id] = merged
	return merged.Clone(), nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) Ping(ctx context.Context) error {
	return f.err
}

func (f *fakeEventRepo) stored(id string) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Clone()
}

// fakeDispatcher records delivered reminders and fails for the addresses in failFor.
type fakeDispatcher struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (d *fakeDispatcher) SendReminder(ctx context.Context, msg *domain.ReminderMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failFor[msg.Correo] {
		return errors.New("smtp down")
	}
	d.sent = append(d.sent, msg.Correo)
	return nil
}

// fakeCalendar writes the event title so tests can see it was called.
type fakeCalendar struct {
	err error
}

func (c *fakeCalendar) Encode(w io.Writer, event *domain.Event) error {
	if c.err != nil {
		return c.err
	}
	_, err := io.WriteString(w, "BEGIN:VCALENDAR "+event.Titulo)
	return err
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEventService(repo *fakeEventRepo, dispatcher *fakeDispatcher) *eventService {
	if dispatcher == nil {
		dispatcher = &fakeDispatcher{}
	}
	svc := NewEventService(repo, NewReminderEvaluator(&fakeRenderer{}, time.UTC), dispatcher, &fakeCalendar{}, 5*time.Second).(*eventService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func roster(correos ...string) []domain.Participant {
	out := make([]domain.Participant, 0, len(correos))
	for _, c := range correos {
		out = append(out, domain.Participant{Correo: c})
	}
	return out
}

func numberedRoster(n int, confirmed bool) *[]domain.Participant {
	out := make([]domain.Participant, n)
	for i := range out {
		out[i] = domain.Participant{Correo: fmt.Sprintf("p%d@x.com", i), AsistenciaConfirmada: confirmed}
	}
	return &out
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      *domain.EventInput
		repoErr error
		wantErr error
		assert  func(t *testing.T, repo *fakeEventRepo, event *domain.Event)
	}{
		{
			name: "success derives lugaresDisponibles from roster",
			in: &domain.EventInput{
				Titulo:          strPtr("Conf"),
				FechaInicio:     timePtr(start),
				CapacidadMaxima: intPtr(10),
				Participantes: &[]domain.Participant{
					{Correo: "a@x.com", AsistenciaConfirmada: true},
					{Correo: "b@x.com"},
				},
			},
			assert: func(t *testing.T, repo *fakeEventRepo, event *domain.Event) {
				require.NotEmpty(t, event.ID)
				assert.Equal(t, 9, event.LugaresDisponibles)
				got := repo.stored(event.ID)
				assert.Equal(t, event, got)
			},
		},
		{
			name: "caller lugaresDisponibles is recomputed",
			in: &domain.EventInput{
				Titulo:             strPtr("Conf"),
				FechaInicio:        timePtr(start),
				CapacidadMaxima:    intPtr(10),
				LugaresDisponibles: intPtr(3),
			},
			assert: func(t *testing.T, repo *fakeEventRepo, event *domain.Event) {
				assert.Equal(t, 10, event.LugaresDisponibles)
				assert.Empty(t, event.Participantes)
				assert.NotNil(t, event.Participantes)
			},
		},
		{
			name:    "missing titulo",
			in:      &domain.EventInput{FechaInicio: timePtr(start), CapacidadMaxima: intPtr(1)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing fechaInicio",
			in:      &domain.EventInput{Titulo: strPtr("Conf"), CapacidadMaxima: intPtr(1)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing capacidadMaxima",
			in:      &domain.EventInput{Titulo: strPtr("Conf"), FechaInicio: timePtr(start)},
			wantErr: domain.ErrValidation,
		},
		{
			name: "duplicate correo",
			in: &domain.EventInput{
				Titulo:          strPtr("Conf"),
				FechaInicio:     timePtr(start),
				CapacidadMaxima: intPtr(10),
				Participantes:   &[]domain.Participant{{Correo: "a@x.com"}, {Correo: "a@x.com"}},
			},
			wantErr: domain.ErrDuplicateParticipant,
		},
		{
			name: "inconsistent capacity edit",
			in: &domain.EventInput{
				Titulo:             strPtr("Conf"),
				FechaInicio:        timePtr(start),
				CapacidadMaxima:    intPtr(10),
				LugaresDisponibles: intPtr(15),
			},
			wantErr: domain.ErrInconsistentCapacityEdit,
		},
		{
			name: "roster exceeds capacity",
			in: &domain.EventInput{
				Titulo:          strPtr("Conf"),
				FechaInicio:     timePtr(start),
				CapacidadMaxima: intPtr(1),
				Participantes:   &[]domain.Participant{{Correo: "a@x.com"}, {Correo: "b@x.com"}},
			},
			wantErr: domain.ErrRosterExceedsCapacity,
		},
		{
			name: "capacity zero with confirmed participant",
			in: &domain.EventInput{
				Titulo:          strPtr("Conf"),
				FechaInicio:     timePtr(start),
				CapacidadMaxima: intPtr(0),
				Participantes:   &[]domain.Participant{{Correo: "a@x.com", AsistenciaConfirmada: true}},
			},
			wantErr: domain.ErrRosterExceedsCapacity,
		},
		{
			name: "six pending participants against capacity five",
			in: &domain.EventInput{
				Titulo:          strPtr("Conf"),
				FechaInicio:     timePtr(start),
				CapacidadMaxima: intPtr(5),
				Participantes:   numberedRoster(6, false),
			},
			wantErr: domain.ErrRosterExceedsCapacity,
		},
		{
			name: "six confirmed participants against capacity five",
			in: &domain.EventInput{
				Titulo:          strPtr("Conf"),
				FechaInicio:     timePtr(start),
				CapacidadMaxima: intPtr(5),
				Participantes:   numberedRoster(6, true),
			},
			wantErr: domain.ErrRosterExceedsCapacity,
		},
		{
			name: "store error is wrapped",
			in: &domain.EventInput{
				Titulo:          strPtr("Conf"),
				FechaInicio:     timePtr(start),
				CapacidadMaxima: intPtr(1),
			},
			repoErr: domain.NewStoreError("create", errors.New("connection refused")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			repo.err = tt.repoErr
			svc := newTestEventService(repo, nil)

			event, err := svc.CreateEvent(ctx, tt.in)
			if tt.repoErr != nil {
				require.Error(t, err)
				var storeErr *domain.StoreError
				assert.True(t, errors.As(err, &storeErr))
				assert.Contains(t, err.Error(), "create event")
				return
			}
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, event)
				assert.Empty(t, repo.byID)
				return
			}
			require.NoError(t, err)
			if tt.assert != nil {
				tt.assert(t, repo, event)
			}
		})
	}
}

func TestEventService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := newTestEventService(repo, nil)

	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	created, err := svc.CreateEvent(ctx, &domain.EventInput{
		Titulo:          strPtr("Meetup"),
		FechaInicio:     timePtr(start),
		FechaFin:        timePtr(end),
		CapacidadMaxima: intPtr(3),
		Participantes:   &[]domain.Participant{{Correo: "a@x.com"}},
	})
	require.NoError(t, err)

	got, err := svc.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	list, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestEventService_GetEvent_NotFound(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(), nil)
	_, err := svc.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ListEvents_Empty(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(), nil)
	list, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	base := func() *domain.Event {
		e := domain.NewEvent("Conf", start, nil, 10, []domain.Participant{
			{Correo: "a@x.com", AsistenciaConfirmada: true},
			{Correo: "b@x.com"},
			{Correo: "c@x.com"},
			{Correo: "d@x.com"},
			{Correo: "e@x.com"},
			{Correo: "f@x.com"},
		})
		e.LugaresDisponibles = 9
		return e
	}

	tests := []struct {
		name       string
		in         *domain.EventInput
		wantErr    error
		wantModify bool
		assert     func(t *testing.T, updated *domain.Event)
	}{
		{
			name: "title only merges without the lock",
			in:   &domain.EventInput{Titulo: strPtr("Renamed")},
			assert: func(t *testing.T, updated *domain.Event) {
				assert.Equal(t, "Renamed", updated.Titulo)
				assert.Equal(t, 10, updated.CapacidadMaxima)
				assert.Equal(t, 9, updated.LugaresDisponibles)
				assert.Len(t, updated.Participantes, 6)
			},
		},
		{
			name:       "capacity change recomputes availability",
			in:         &domain.EventInput{CapacidadMaxima: intPtr(20)},
			wantModify: true,
			assert: func(t *testing.T, updated *domain.Event) {
				assert.Equal(t, 20, updated.CapacidadMaxima)
				assert.Equal(t, 19, updated.LugaresDisponibles)
			},
		},
		{
			name:       "inconsistent capacity edit",
			in:         &domain.EventInput{CapacidadMaxima: intPtr(10), LugaresDisponibles: intPtr(15)},
			wantErr:    domain.ErrInconsistentCapacityEdit,
			wantModify: true,
		},
		{
			name:       "equal capacity and availability is inconsistent",
			in:         &domain.EventInput{CapacidadMaxima: intPtr(10), LugaresDisponibles: intPtr(10)},
			wantErr:    domain.ErrInconsistentCapacityEdit,
			wantModify: true,
		},
		{
			name:       "shrinking below roster size",
			in:         &domain.EventInput{CapacidadMaxima: intPtr(5)},
			wantErr:    domain.ErrRosterExceedsCapacity,
			wantModify: true,
		},
		{
			name:       "new roster replaces the old one",
			in:         &domain.EventInput{Participantes: &[]domain.Participant{{Correo: "z@x.com", AsistenciaConfirmada: true}, {Correo: "y@x.com", AsistenciaConfirmada: true}}},
			wantModify: true,
			assert: func(t *testing.T, updated *domain.Event) {
				assert.Len(t, updated.Participantes, 2)
				assert.Equal(t, 8, updated.LugaresDisponibles)
			},
		},
		{
			name:    "duplicate correo",
			in:      &domain.EventInput{Participantes: &[]domain.Participant{{Correo: "a@x.com"}, {Correo: "a@x.com"}}},
			wantErr: domain.ErrDuplicateParticipant,
		},
		{
			name:       "end before stored start",
			in:         &domain.EventInput{CapacidadMaxima: intPtr(12), FechaFin: timePtr(start.Add(-time.Hour))},
			wantErr:    domain.ErrValidation,
			wantModify: true,
		},
		{
			name:       "end alone before stored start",
			in:         &domain.EventInput{FechaFin: timePtr(start.Add(-48 * time.Hour))},
			wantErr:    domain.ErrValidation,
			wantModify: true,
		},
		{
			name:       "date change keeps availability",
			in:         &domain.EventInput{FechaFin: timePtr(start.Add(3 * time.Hour))},
			wantModify: true,
			assert: func(t *testing.T, updated *domain.Event) {
				require.NotNil(t, updated.FechaFin)
				assert.Equal(t, start.Add(3*time.Hour), *updated.FechaFin)
				assert.Equal(t, 9, updated.LugaresDisponibles)
				assert.Equal(t, 10, updated.CapacidadMaxima)
			},
		},
		{
			name:       "six confirmed participants against capacity five",
			in:         &domain.EventInput{CapacidadMaxima: intPtr(5), Participantes: numberedRoster(6, true)},
			wantErr:    domain.ErrRosterExceedsCapacity,
			wantModify: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			seeded := repo.seed(base())
			svc := newTestEventService(repo, nil)

			updated, err := svc.UpdateEvent(ctx, seeded.ID, tt.in)
			assert.Equal(t, tt.wantModify, repo.modifyN > 0)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, base().LugaresDisponibles, repo.stored(seeded.ID).LugaresDisponibles)
				assert.Equal(t, base().CapacidadMaxima, repo.stored(seeded.ID).CapacidadMaxima)
				return
			}
			require.NoError(t, err)
			tt.assert(t, updated)
			assert.Equal(t, updated, repo.stored(seeded.ID))
		})
	}
}

func TestEventService_UpdateEvent_NotFound(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(), nil)

	_, err := svc.UpdateEvent(context.Background(), "missing", &domain.EventInput{Titulo: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateEvent(context.Background(), "missing", &domain.EventInput{CapacidadMaxima: intPtr(3)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	seeded := repo.seed(domain.NewEvent("Conf", fixedNow, nil, 2, nil))
	svc := newTestEventService(repo, nil)

	require.NoError(t, svc.DeleteEvent(ctx, seeded.ID))
	_, err := svc.GetEvent(ctx, seeded.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteEvent(ctx, seeded.ID), domain.ErrNotFound)
}

func TestEventService_ConfirmAttendance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	e := domain.NewEvent("Conf", fixedNow.Add(72*time.Hour), nil, 10, []domain.Participant{
		{Correo: "a@x.com", AsistenciaConfirmada: true},
		{Correo: "b@x.com"},
		{Correo: "c@x.com"},
	})
	e.LugaresDisponibles = 9
	seeded := repo.seed(e)
	svc := newTestEventService(repo, nil)

	p, err := svc.ConfirmAttendance(ctx, seeded.ID, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", p.Correo)
	assert.True(t, p.AsistenciaConfirmada)

	stored := repo.stored(seeded.ID)
	assert.Equal(t, 8, stored.LugaresDisponibles)
	assert.True(t, stored.Participantes[1].AsistenciaConfirmada)
	assert.False(t, stored.Participantes[2].AsistenciaConfirmada)

	_, err = svc.ConfirmAttendance(ctx, seeded.ID, "b@x.com")
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
	assert.Equal(t, 8, repo.stored(seeded.ID).LugaresDisponibles)

	_, err = svc.ConfirmAttendance(ctx, seeded.ID, "B@x.com")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	_, err = svc.ConfirmAttendance(ctx, seeded.ID, "z@x.com")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	_, err = svc.ConfirmAttendance(ctx, "missing", "b@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ConfirmAttendance_CapacityExceeded(t *testing.T) {
	repo := newFakeEventRepo()
	e := domain.NewEvent("Conf", fixedNow, nil, 1, []domain.Participant{
		{Correo: "a@x.com", AsistenciaConfirmada: true},
		{Correo: "b@x.com"},
	})
	seeded := repo.seed(e)
	svc := newTestEventService(repo, nil)

	_, err := svc.ConfirmAttendance(context.Background(), seeded.ID, "b@x.com")
	assert.True(t, domain.IsCapacityViolation(err))
	assert.False(t, repo.stored(seeded.ID).Participantes[1].AsistenciaConfirmada)
}

func TestEventService_ConfirmAttendance_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	correos := make([]string, 20)
	for i := range correos {
		correos[i] = fmt.Sprintf("p%02d@x.com", i)
	}
	e := domain.NewEvent("Conf", fixedNow, nil, 25, roster(correos...))
	e.LugaresDisponibles = 25
	seeded := repo.seed(e)
	svc := newTestEventService(repo, nil)

	var wg sync.WaitGroup
	errs := make(chan error, len(correos)*2)
	for _, c := range correos {
		for range 2 {
			wg.Add(1)
			go func(correo string) {
				defer wg.Done()
				_, err := svc.ConfirmAttendance(ctx, seeded.ID, correo)
				errs <- err
			}(c)
		}
	}
	wg.Wait()
	close(errs)

	var ok, already int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			already++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, len(correos), ok)
	assert.Equal(t, len(correos), already)

	stored := repo.stored(seeded.ID)
	assert.Equal(t, len(correos), stored.ConfirmedCount())
	assert.Equal(t, 5, stored.LugaresDisponibles)
}

func TestEventService_SendReminders(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		start      time.Time
		roster     []domain.Participant
		failFor    map[string]bool
		wantErr    error
		wantStatus string
		wantSent   []string
		wantFailed []string
	}{
		{
			name:       "four days out sends to every participant",
			start:      fixedNow.Add(4 * 24 * time.Hour),
			roster:     []domain.Participant{{Correo: "a@x.com", AsistenciaConfirmada: true}, {Correo: "b@x.com"}},
			wantStatus: domain.ReminderStatusSent,
			wantSent:   []string{"a@x.com", "b@x.com"},
		},
		{
			name:    "six days out is too early",
			start:   fixedNow.Add(6 * 24 * time.Hour),
			roster:  roster("a@x.com"),
			wantErr: domain.ErrReminderWindowNotOpen,
		},
		{
			name:       "no participants",
			start:      fixedNow.Add(24 * time.Hour),
			wantStatus: domain.ReminderStatusNoParticipants,
		},
		{
			name:       "failed delivery is reported and does not stop the rest",
			start:      fixedNow.Add(2 * 24 * time.Hour),
			roster:     roster("a@x.com", "b@x.com", "c@x.com"),
			failFor:    map[string]bool{"b@x.com": true},
			wantStatus: domain.ReminderStatusSent,
			wantSent:   []string{"a@x.com", "c@x.com"},
			wantFailed: []string{"b@x.com"},
		},
		{
			name:    "missing start date",
			roster:  roster("a@x.com"),
			wantErr: domain.ErrInvalidEventDate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			seeded := repo.seed(domain.NewEvent("Conf", tt.start, nil, 10, tt.roster))
			dispatcher := &fakeDispatcher{failFor: tt.failFor}
			svc := newTestEventService(repo, dispatcher)

			plan, err := svc.SendReminders(ctx, seeded.ID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, dispatcher.sent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, seeded.ID, plan.EventID)
			assert.Equal(t, tt.wantStatus, plan.Status)
			assert.Len(t, plan.Participantes, len(tt.roster))
			assert.Equal(t, tt.wantSent, dispatcher.sent)
			assert.Equal(t, tt.wantFailed, plan.Fallidos)
		})
	}
}

func TestEventService_SendReminders_NotFound(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(), nil)
	_, err := svc.SendReminders(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ExportCalendar(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	seeded := repo.seed(domain.NewEvent("Conf", fixedNow, nil, 10, nil))
	undated := repo.seed(domain.NewEvent("Undated", time.Time{}, nil, 10, nil))
	svc := newTestEventService(repo, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCalendar(ctx, seeded.ID, &buf))
	assert.Equal(t, "BEGIN:VCALENDAR Conf", buf.String())

	assert.ErrorIs(t, svc.ExportCalendar(ctx, undated.ID, &bytes.Buffer{}), domain.ErrInvalidEventDate)
	assert.ErrorIs(t, svc.ExportCalendar(ctx, "missing", &bytes.Buffer{}), domain.ErrNotFound)
}

func TestEventService_Health(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestEventService(repo, nil)
	require.NoError(t, svc.Health(context.Background()))

	repo.err = domain.NewStoreError("ping", errors.New("connection refused"))
	assert.Error(t, svc.Health(context.Background()))
}
