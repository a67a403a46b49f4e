package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/clinic-api/internal/model"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	byID map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	f.byID[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	cp := *apt
	return &cp, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	if _, ok := f.byID[apt.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	f.byID[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(f.byID))
	for _, apt := range f.byID {
		cp := *apt
		out = append(out, &cp)
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return p, nil
}

func (f *fakePatientRepo) Create(context.Context, *model.Patient) error  { return nil }
func (f *fakePatientRepo) Update(context.Context, *model.Patient) error  { return nil }
func (f *fakePatientRepo) Delete(context.Context, uuid.UUID) error       { return nil }
func (f *fakePatientRepo) List(context.Context, *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}
func (f *fakePatientRepo) SetUnits(context.Context, uuid.UUID, []uuid.UUID) error { return nil }
func (f *fakePatientRepo) AddEvolutionRecord(context.Context, *model.EvolutionRecord) error {
	return nil
}
func (f *fakePatientRepo) ListEvolutionRecords(context.Context, uuid.UUID) ([]*model.EvolutionRecord, error) {
	return nil, nil
}
func (f *fakePatientRepo) GetEvolutionRecord(context.Context, uuid.UUID, uuid.UUID) (*model.EvolutionRecord, error) {
	return nil, nil
}

func TestAppointmentsOn(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	list := []*model.Appointment{
		{Date: "2025-03-10", StartTime: "14:00", Professional: "Ana"},
		{Date: "2025-03-11", StartTime: "08:00", Professional: "Bruno"},
		{Date: "2025-03-10", StartTime: "08:30", Professional: "Carla"},
		{Date: "not-a-date", StartTime: "09:00", Professional: "Davi"},
		{Date: "2025-03-10", StartTime: "08:00", Professional: "Elisa"},
	}

	got := AppointmentsOn(day, list)

	require.Len(t, got, 3)
	assert.Equal(t, "Elisa", got[0].Professional)
	assert.Equal(t, "Carla", got[1].Professional)
	assert.Equal(t, "Ana", got[2].Professional)
}

func TestAppointmentsOnEmpty(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, AppointmentsOn(day, nil))
	assert.Empty(t, AppointmentsOn(day, []*model.Appointment{{Date: "2025-03-11"}}))
}

func TestCreateAppointmentDenormalizesPatientName(t *testing.T) {
	patientID := uuid.New()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
		patientID: {Base: model.Base{ID: patientID}, Name: "Joana Souza"},
	}}
	svc := NewService(newFakeAppointmentRepo(), patients)

	apt, err := svc.CreateAppointment(context.Background(), &model.Appointment{
		PatientID:    patientID,
		UnitID:       uuid.New(),
		Professional: "Ana",
		Date:         "2025-03-10",
		StartTime:    "08:00",
		EndTime:      "09:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "Joana Souza", apt.PatientName)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo(), &fakePatientRepo{})

	tests := []struct {
		name string
		apt  *model.Appointment
	}{
		{"missing patient", &model.Appointment{UnitID: uuid.New(), Professional: "Ana", Date: "2025-03-10", StartTime: "08:00", EndTime: "09:00"}},
		{"bad date", &model.Appointment{PatientID: uuid.New(), UnitID: uuid.New(), Professional: "Ana", Date: "10/03/2025", StartTime: "08:00", EndTime: "09:00"}},
		{"inverted times", &model.Appointment{PatientID: uuid.New(), UnitID: uuid.New(), Professional: "Ana", Date: "2025-03-10", StartTime: "10:00", EndTime: "09:00"}},
		{"bad start time", &model.Appointment{PatientID: uuid.New(), UnitID: uuid.New(), Professional: "Ana", Date: "2025-03-10", StartTime: "8am", EndTime: "09:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(context.Background(), tt.apt)
			assert.Error(t, err)
		})
	}
}

func TestCancelAppointment(t *testing.T) {
	patientID := uuid.New()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
		patientID: {Base: model.Base{ID: patientID}, Name: "Joana"},
	}}
	repo := newFakeAppointmentRepo()
	svc := NewService(repo, patients)

	apt, err := svc.CreateAppointment(context.Background(), &model.Appointment{
		PatientID:    patientID,
		UnitID:       uuid.New(),
		Professional: "Ana",
		Date:         "2025-03-10",
		StartTime:    "08:00",
		EndTime:      "09:00",
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelAppointment(context.Background(), apt.ID))

	got, err := svc.GetAppointment(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)

	// Cancelling twice fails.
	assert.Error(t, svc.CancelAppointment(context.Background(), apt.ID))
}

func TestOverlappingAppointmentsAccepted(t *testing.T) {
	patientID := uuid.New()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
		patientID: {Base: model.Base{ID: patientID}, Name: "Joana"},
	}}
	svc := NewService(newFakeAppointmentRepo(), patients)
	unitID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.CreateAppointment(context.Background(), &model.Appointment{
			PatientID:    patientID,
			UnitID:       unitID,
			Professional: "Ana",
			Room:         "Sala 1",
			Date:         "2025-03-10",
			StartTime:    "08:00",
			EndTime:      "09:00",
		})
		require.NoError(t, err)
	}

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	list, err := svc.ListAppointments(context.Background(), &model.AppointmentFilters{})
	require.NoError(t, err)
	assert.Len(t, AppointmentsOn(day, list), 2)
}
