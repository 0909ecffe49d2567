package booking

import (
	"context"
	"sort"
	"time"

	"gorm.io/datatypes"

	"homecare-app-server/internal/models"
)

// mockStore is an in-memory Store. Returned records are copies with their
// relations filled in, like the gorm store's preloads.
type mockStore struct {
	users    map[string]*models.User
	slots    map[uint]*models.Availability
	appts    map[uint]*models.Appointment
	nextSlot uint
	nextAppt uint

	// failWith, when set, is returned by every read.
	failWith error
	// conflictOnCreate makes CreateAppointment report a lost race.
	conflictOnCreate bool
}

func newMockStore() *mockStore {
	return &mockStore{
		users: make(map[string]*models.User),
		slots: make(map[uint]*models.Availability),
		appts: make(map[uint]*models.Appointment),
	}
}

func (m *mockStore) addUser(id, name string, roles ...models.Role) *models.User {
	u := &models.User{BaseModel: models.BaseModel{ID: id}, FullName: name, Email: id + "@homecare.test"}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.UserRole{UserID: id, Role: r})
	}
	m.users[id] = u
	return u
}

func (m *mockStore) addSlot(owner string, date string, start, end string) *models.Availability {
	d, _ := ParseDate(date)
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	m.nextSlot++
	slot := &models.Availability{ID: m.nextSlot, PersonnelID: owner, Date: d, StartTime: s, EndTime: e}
	m.slots[slot.ID] = slot
	return slot
}

func (m *mockStore) addAppointment(slotID uint, client string, start, end string) *models.Appointment {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	m.nextAppt++
	appt := &models.Appointment{
		ID: m.nextAppt, AvailabilityID: slotID, ClientID: client,
		TaskDescription: "visit", StartTime: s, EndTime: e, Status: models.StatusBooked,
	}
	m.appts[appt.ID] = appt
	return appt
}

func (m *mockStore) WithinTransaction(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *mockStore) FindUser(ctx context.Context, id string) (*models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockStore) hydrateSlot(slot *models.Availability) models.Availability {
	cp := *slot
	cp.Personnel = m.users[slot.PersonnelID]
	cp.Appointment = nil
	for _, a := range m.appts {
		if a.AvailabilityID == slot.ID {
			ac := *a
			cp.Appointment = &ac
		}
	}
	return cp
}

func (m *mockStore) ListAvailabilities(ctx context.Context) ([]models.Availability, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]models.Availability, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, m.hydrateSlot(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) FindAvailability(ctx context.Context, id uint) (*models.Availability, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	s, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	cp := m.hydrateSlot(s)
	return &cp, nil
}

func (m *mockStore) CreateAvailability(ctx context.Context, slot *models.Availability) error {
	m.nextSlot++
	slot.ID = m.nextSlot
	cp := *slot
	cp.Personnel, cp.Appointment = nil, nil
	m.slots[cp.ID] = &cp
	return nil
}

func (m *mockStore) SaveAvailability(ctx context.Context, slot *models.Availability) error {
	cp := *slot
	cp.Personnel, cp.Appointment = nil, nil
	m.slots[cp.ID] = &cp
	return nil
}

func (m *mockStore) DeleteAvailability(ctx context.Context, id uint) error {
	for aid, a := range m.appts {
		if a.AvailabilityID == id {
			delete(m.appts, aid)
		}
	}
	delete(m.slots, id)
	return nil
}

func (m *mockStore) hydrateAppointment(a *models.Appointment) models.Appointment {
	cp := *a
	cp.Client = m.users[a.ClientID]
	cp.Availability = nil
	if s, ok := m.slots[a.AvailabilityID]; ok {
		sc := *s
		sc.Personnel = m.users[s.PersonnelID]
		cp.Availability = &sc
	}
	return cp
}

func (m *mockStore) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]models.Appointment, 0, len(m.appts))
	for _, a := range m.appts {
		out = append(out, m.hydrateAppointment(a))
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := slotDate(out[i]), slotDate(out[j])
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].StartTime > out[j].StartTime
	})
	return out, nil
}

func slotDate(a models.Appointment) time.Time {
	if a.Availability == nil {
		return time.Time{}
	}
	return time.Time(a.Availability.Date)
}

func (m *mockStore) FindAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	cp := m.hydrateAppointment(a)
	return &cp, nil
}

func (m *mockStore) slotTaken(slotID, except uint) bool {
	for _, a := range m.appts {
		if a.AvailabilityID == slotID && a.ID != except {
			return true
		}
	}
	return false
}

func (m *mockStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if m.conflictOnCreate || m.slotTaken(appt.AvailabilityID, 0) {
		return models.ErrAvailabilityBooked
	}
	m.nextAppt++
	appt.ID = m.nextAppt
	cp := *appt
	cp.Client, cp.Availability = nil, nil
	m.appts[cp.ID] = &cp
	return nil
}

func (m *mockStore) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	if m.slotTaken(appt.AvailabilityID, appt.ID) {
		return models.ErrAvailabilityBooked
	}
	cp := *appt
	cp.Client, cp.Availability = nil, nil
	m.appts[cp.ID] = &cp
	return nil
}

func (m *mockStore) DeleteAppointment(ctx context.Context, id uint) error {
	delete(m.appts, id)
	return nil
}

// clock is a test shorthand for a parsed time of day.
func clock(s string) datatypes.Time {
	t, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return t
}
