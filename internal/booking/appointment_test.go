package booking

import (
	"context"
	"errors"
	"testing"

	"homecare-app-server/internal/models"
)

func bookRequest(slotID uint, start, end string) *AppointmentRequest {
	return &AppointmentRequest{
		AvailabilityID:  slotID,
		TaskDescription: "Medication reminder",
		StartTime:       start,
		EndTime:         end,
	}
}

func TestCreateAppointment_PatientBooksForSelf(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")

	req := bookRequest(slot.ID, "09:00", "10:00")
	req.ClientID = "patient-2"
	req.Status = "Completed"
	resp, err := f.engine.CreateAppointment(context.Background(), req, f.patient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ClientID != "patient-1" {
		t.Errorf("expected client patient-1, got %s", resp.ClientID)
	}
	if resp.Status != string(models.StatusBooked) {
		t.Errorf("expected status Booked, got %s", resp.Status)
	}
	if resp.PersonnelID != "nurse-1" || resp.PersonnelName != "Nurse Nora" || resp.Date != "2024-06-01" {
		t.Errorf("expected slot details in response, got %+v", resp)
	}
	if resp.ClientName != "Patient Peter" {
		t.Errorf("expected client name Patient Peter, got %q", resp.ClientName)
	}

	slots, err := f.engine.ListAvailability(context.Background(), f.nurse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].AppointmentID == nil || *slots[0].AppointmentID != resp.ID {
		t.Fatalf("expected nurse to see slot bound to %d, got %+v", resp.ID, slots)
	}
}

func TestCreateAppointment_SecondBookingRejected(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")

	if _, err := f.engine.CreateAppointment(context.Background(), bookRequest(slot.ID, "09:00", "10:00"), f.patient); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := f.engine.CreateAppointment(context.Background(), bookRequest(slot.ID, "09:00", "10:00"), f.other)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	var rejected *Error
	if errors.As(err, &rejected) && rejected.Message != msgSlotBooked {
		t.Errorf("unexpected message %q", rejected.Message)
	}
	if len(f.store.appts) != 1 {
		t.Errorf("expected one appointment, got %d", len(f.store.appts))
	}
}

func TestCreateAppointment_LostRaceIsBadRequest(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	f.store.conflictOnCreate = true

	_, err := f.engine.CreateAppointment(context.Background(), bookRequest(slot.ID, "09:00", "10:00"), f.patient)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name   string
		caller Caller
		req    *AppointmentRequest
		want   string
	}{
		{"missing slot", f.patient, bookRequest(99, "09:00", "10:00"), msgSlotMissing},
		{"unparsable start", f.patient, bookRequest(slot.ID, "9am", "10:00"), msgBadTime},
		{"unparsable end", f.patient, bookRequest(slot.ID, "09:00", "25:00"), msgBadTime},
		{"end before start", f.patient, bookRequest(slot.ID, "10:00", "09:00"), msgTimeOrder},
		{"empty window", f.patient, bookRequest(slot.ID, "10:00", "10:00"), msgTimeOrder},
		{"personnel without client", f.nurse, bookRequest(slot.ID, "09:00", "10:00"), msgClientRequired},
		{"blank client", f.admin, &AppointmentRequest{AvailabilityID: slot.ID, ClientID: "  ", TaskDescription: "x", StartTime: "09:00", EndTime: "10:00"}, msgClientRequired},
		{"unknown client", f.admin, &AppointmentRequest{AvailabilityID: slot.ID, ClientID: "nobody", TaskDescription: "x", StartTime: "09:00", EndTime: "10:00"}, msgClientMissing},
		{"bad status", f.admin, &AppointmentRequest{AvailabilityID: slot.ID, ClientID: "patient-1", TaskDescription: "x", StartTime: "09:00", EndTime: "10:00", Status: "Pending"}, msgInvalidStatus},
		{"missing task", f.patient, &AppointmentRequest{AvailabilityID: slot.ID, StartTime: "09:00", EndTime: "10:00"}, "Validation failed: TaskDescription is required"},
		{"task too long", f.patient, &AppointmentRequest{AvailabilityID: slot.ID, TaskDescription: string(long), StartTime: "09:00", EndTime: "10:00"}, "Validation failed: TaskDescription must be at most 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateAppointment(context.Background(), tt.req, tt.caller)
			if !errors.Is(err, ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
			if err.Error() != tt.want {
				t.Errorf("expected message %q, got %q", tt.want, err.Error())
			}
		})
	}
	if len(f.store.appts) != 0 {
		t.Errorf("expected no appointments stored, got %d", len(f.store.appts))
	}
}

func TestCreateAppointment_PersonnelBooksForClient(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")

	req := bookRequest(slot.ID, "9:15", "09:45")
	req.ClientID = "patient-2"
	req.Status = "Completed"
	resp, err := f.engine.CreateAppointment(context.Background(), req, f.nurse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ClientID != "patient-2" || resp.Status != "Completed" {
		t.Errorf("expected client patient-2 with status Completed, got %s %s", resp.ClientID, resp.Status)
	}
	if resp.StartTime != "09:15:00" || resp.EndTime != "09:45:00" {
		t.Errorf("unexpected window %s-%s", resp.StartTime, resp.EndTime)
	}
}

func TestCreateAppointment_NoIdentity(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")

	_, err := f.engine.CreateAppointment(context.Background(), bookRequest(slot.ID, "09:00", "10:00"), NewCaller([]string{""}, "", []string{"Patient"}))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateAppointment_PatientStatusStaysBooked(t *testing.T) {
	for _, requested := range []string{"Completed", "Cancelled", "Booked", "", "Whatever"} {
		t.Run("requested "+requested, func(t *testing.T) {
			f := newFixture(t)
			slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
			appt := f.store.addAppointment(slot.ID, "patient-1", "09:00", "10:00")
			appt.Status = models.StatusCancelled

			req := bookRequest(slot.ID, "09:30", "10:00")
			req.Status = requested
			req.ClientID = "patient-2"
			if err := f.engine.UpdateAppointment(context.Background(), appt.ID, req, f.patient); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			stored := f.store.appts[appt.ID]
			if stored.Status != models.StatusBooked {
				t.Errorf("expected Booked, got %s", stored.Status)
			}
			if stored.ClientID != "patient-1" {
				t.Errorf("patient must not reassign the client, got %s", stored.ClientID)
			}
			if stored.StartTime != clock("09:30") {
				t.Errorf("expected new start time, got %s", stored.StartTime)
			}
		})
	}
}

func TestUpdateAppointment_PatientMustOwn(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	appt := f.store.addAppointment(slot.ID, "patient-1", "09:00", "10:00")

	err := f.engine.UpdateAppointment(context.Background(), appt.ID, bookRequest(slot.ID, "09:00", "10:00"), f.other)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if f.store.appts[appt.ID].TaskDescription != "visit" {
		t.Error("appointment changed after forbidden update")
	}
}

func TestUpdateAppointment_PersonnelSetsClientAndStatus(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	free := f.store.addSlot("nurse-1", "2024-06-02", "09:00", "10:00")
	appt := f.store.addAppointment(slot.ID, "patient-1", "09:00", "10:00")

	req := bookRequest(free.ID, "09:00", "09:30")
	req.ClientID = "patient-2"
	req.Status = "Completed"
	if err := f.engine.UpdateAppointment(context.Background(), appt.ID, req, f.foreign); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := f.store.appts[appt.ID]
	if stored.ClientID != "patient-2" || stored.Status != models.StatusCompleted || stored.AvailabilityID != free.ID {
		t.Errorf("update not applied: %+v", stored)
	}

	req.Status = ""
	req.ClientID = ""
	if err := f.engine.UpdateAppointment(context.Background(), appt.ID, req, f.admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored = f.store.appts[appt.ID]
	if stored.ClientID != "patient-2" || stored.Status != models.StatusCompleted {
		t.Errorf("blank client and status must keep current values, got %+v", stored)
	}

	req.Status = "Done"
	if err := f.engine.UpdateAppointment(context.Background(), appt.ID, req, f.admin); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for unknown status, got %v", err)
	}
}

func TestUpdateAppointment_SlotChecks(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	taken := f.store.addSlot("nurse-1", "2024-06-02", "09:00", "10:00")
	appt := f.store.addAppointment(slot.ID, "patient-1", "09:00", "10:00")
	f.store.addAppointment(taken.ID, "patient-2", "09:00", "10:00")

	tests := []struct {
		name string
		id   uint
		req  *AppointmentRequest
		want error
	}{
		{"unknown appointment", 99, bookRequest(slot.ID, "09:00", "10:00"), ErrNotFound},
		{"unknown slot", appt.ID, bookRequest(99, "09:00", "10:00"), ErrBadRequest},
		{"slot bound to another", appt.ID, bookRequest(taken.ID, "09:00", "10:00"), ErrBadRequest},
		{"times reversed", appt.ID, bookRequest(slot.ID, "10:00", "09:00"), ErrBadRequest},
		{"same slot is fine", appt.ID, bookRequest(slot.ID, "09:00", "10:00"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.engine.UpdateAppointment(context.Background(), tt.id, tt.req, f.patient)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetAppointment_Authorization(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	appt := f.store.addAppointment(slot.ID, "patient-1", "09:00", "10:00")

	tests := []struct {
		name   string
		caller Caller
		want   error
	}{
		{"admin", f.admin, nil},
		{"owning client", f.patient, nil},
		{"slot owner", f.nurse, nil},
		{"other patient", f.other, ErrForbidden},
		{"other personnel", f.foreign, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.engine.GetAppointment(context.Background(), appt.ID, tt.caller)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.ID != appt.ID {
					t.Errorf("expected appointment %d, got %d", appt.ID, got.ID)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := f.engine.GetAppointment(context.Background(), 99, f.admin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAppointment_Rules(t *testing.T) {
	f := newFixture(t)
	slot := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	appt := f.store.addAppointment(slot.ID, "patient-1", "09:00", "10:00")

	if err := f.engine.DeleteAppointment(context.Background(), appt.ID, f.other); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.engine.DeleteAppointment(context.Background(), appt.ID, f.foreign); err != nil {
		t.Fatalf("personnel may delete any appointment, got %v", err)
	}
	if err := f.engine.DeleteAppointment(context.Background(), appt.ID, f.admin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := f.engine.GetAvailability(context.Background(), slot.ID, f.patient)
	if err != nil {
		t.Fatalf("slot must survive appointment delete: %v", err)
	}
	if got.IsBooked {
		t.Error("expected slot to be free again")
	}
}

func TestListAppointments_ScopeAndOrder(t *testing.T) {
	f := newFixture(t)
	early := f.store.addSlot("nurse-1", "2024-06-01", "09:00", "10:00")
	late := f.store.addSlot("nurse-1", "2024-06-03", "09:00", "10:00")
	lateAfternoon := f.store.addSlot("nurse-1", "2024-06-03", "13:00", "14:00")
	other := f.store.addSlot("foreign-1", "2024-06-02", "09:00", "10:00")
	a1 := f.store.addAppointment(early.ID, "patient-1", "09:00", "10:00")
	a2 := f.store.addAppointment(late.ID, "patient-1", "09:00", "10:00")
	a3 := f.store.addAppointment(lateAfternoon.ID, "patient-2", "13:00", "14:00")
	a4 := f.store.addAppointment(other.ID, "patient-2", "09:00", "10:00")

	tests := []struct {
		name   string
		caller Caller
		want   []uint
	}{
		{"admin", f.admin, []uint{a3.ID, a2.ID, a4.ID, a1.ID}},
		{"patient", f.patient, []uint{a2.ID, a1.ID}},
		{"personnel", f.nurse, []uint{a3.ID, a2.ID, a1.ID}},
		{"patient wins over personnel", NewCaller([]string{"patient-2"}, "", []string{"Personnel", "Patient"}), []uint{a3.ID, a4.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.engine.ListAppointments(context.Background(), tt.caller)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d appointments, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}
