package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	doctorClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/doctorservice"
	patientClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/patientservice"
)

type fakeApptRepo struct {
	createFn          func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	findOverlappingFn func(ctx context.Context, doctorID int64, slot domain.Slot, excludeID *int64) ([]*domain.Appointment, error)
}

func (f *fakeApptRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	return f.createFn(ctx, appt)
}

func (f *fakeApptRepo) FindOverlapping(ctx context.Context, doctorID int64, slot domain.Slot, excludeID *int64) ([]*domain.Appointment, error) {
	return f.findOverlappingFn(ctx, doctorID, slot, excludeID)
}

type fakePatientClient struct {
	getPatientFn func(ctx context.Context, patientID int64) (*patientClient.Patient, error)
}

func (f *fakePatientClient) GetPatient(ctx context.Context, patientID int64) (*patientClient.Patient, error) {
	return f.getPatientFn(ctx, patientID)
}

type fakeDoctorClient struct {
	getDoctorFn func(ctx context.Context, doctorID int64) (*doctorClient.Doctor, error)
}

func (f *fakeDoctorClient) GetDoctor(ctx context.Context, doctorID int64) (*doctorClient.Doctor, error) {
	return f.getDoctorFn(ctx, doctorID)
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		PatientID:  10,
		DoctorID:   20,
		Department: "cardiology",
		SlotStart:  testNow.Add(24 * time.Hour),
		SlotEnd:    testNow.Add(24*time.Hour + 30*time.Minute),
	}
}

func okPatient(ctx context.Context, patientID int64) (*patientClient.Patient, error) {
	return &patientClient.Patient{ID: patientID, Name: "Ivan Petrov"}, nil
}

func okDoctor(ctx context.Context, doctorID int64) (*doctorClient.Doctor, error) {
	return &doctorClient.Doctor{ID: doctorID, Name: "Dr. Smirnova", Department: "cardiology"}, nil
}

func newTestUseCase(repo *fakeApptRepo, patients *fakePatientClient, doctors *fakeDoctorClient) *UseCase {
	uc := NewUseCase(repo, patients, doctors, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func TestUseCase_Execute_Success(t *testing.T) {
	var createdAppt *domain.Appointment

	repo := &fakeApptRepo{
		findOverlappingFn: func(ctx context.Context, doctorID int64, slot domain.Slot, excludeID *int64) ([]*domain.Appointment, error) {
			assert.Nil(t, excludeID)
			return nil, nil
		},
		createFn: func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
			createdAppt = appt
			created := *appt
			created.ID = 1
			created.CreatedAt = testNow
			created.UpdatedAt = testNow
			return &created, nil
		},
	}

	uc := newTestUseCase(repo,
		&fakePatientClient{getPatientFn: okPatient},
		&fakeDoctorClient{getDoctorFn: okDoctor},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, 0, resp.RescheduleCount)

	require.NotNil(t, createdAppt)
	assert.Equal(t, domain.StatusScheduled, createdAppt.Status)
	assert.Equal(t, "cardiology", createdAppt.Department)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{
			name:   "non-positive patient id",
			mutate: func(req *Request) { req.PatientID = 0 },
		},
		{
			name:   "non-positive doctor id",
			mutate: func(req *Request) { req.DoctorID = -1 },
		},
		{
			name:   "empty department",
			mutate: func(req *Request) { req.Department = "" },
		},
		{
			name:   "start equals end",
			mutate: func(req *Request) { req.SlotEnd = req.SlotStart },
		},
		{
			name:   "start after end",
			mutate: func(req *Request) { req.SlotEnd = req.SlotStart.Add(-time.Hour) },
		},
		{
			name:   "slot in the past",
			mutate: func(req *Request) {
				req.SlotStart = testNow.Add(-2 * time.Hour)
				req.SlotEnd = testNow.Add(-time.Hour)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeApptRepo{},
				&fakePatientClient{getPatientFn: okPatient},
				&fakeDoctorClient{getDoctorFn: okDoctor},
			)

			req := validRequest()
			tt.mutate(req)

			resp, err := uc.Execute(context.Background(), req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_Execute_PatientNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{},
		&fakePatientClient{getPatientFn: func(ctx context.Context, patientID int64) (*patientClient.Patient, error) {
			return nil, patientClient.ErrPatientNotFound
		}},
		&fakeDoctorClient{getDoctorFn: okDoctor},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestUseCase_Execute_DoctorNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{},
		&fakePatientClient{getPatientFn: okPatient},
		&fakeDoctorClient{getDoctorFn: func(ctx context.Context, doctorID int64) (*doctorClient.Doctor, error) {
			return nil, doctorClient.ErrDoctorNotFound
		}},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUseCase_Execute_DepartmentMismatch(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{},
		&fakePatientClient{getPatientFn: okPatient},
		&fakeDoctorClient{getDoctorFn: func(ctx context.Context, doctorID int64) (*doctorClient.Doctor, error) {
			return &doctorClient.Doctor{ID: doctorID, Department: "neurology"}, nil
		}},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrDepartmentMismatch)
}

func TestUseCase_Execute_SlotUnavailable(t *testing.T) {
	createCalled := false

	repo := &fakeApptRepo{
		findOverlappingFn: func(ctx context.Context, doctorID int64, slot domain.Slot, excludeID *int64) ([]*domain.Appointment, error) {
			return []*domain.Appointment{{ID: 99, DoctorID: doctorID, Status: domain.StatusScheduled}}, nil
		},
		createFn: func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
			createCalled = true
			return appt, nil
		},
	}

	uc := newTestUseCase(repo,
		&fakePatientClient{getPatientFn: okPatient},
		&fakeDoctorClient{getDoctorFn: okDoctor},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.False(t, createCalled, "create must not be called when the slot is taken")
}

func TestUseCase_Execute_PatientServiceUnavailable(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{},
		&fakePatientClient{getPatientFn: func(ctx context.Context, patientID int64) (*patientClient.Patient, error) {
			return nil, patientClient.ErrServiceUnavailable
		}},
		&fakeDoctorClient{getDoctorFn: okDoctor},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestUseCase_Execute_DoctorServiceUnavailable(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{},
		&fakePatientClient{getPatientFn: okPatient},
		&fakeDoctorClient{getDoctorFn: func(ctx context.Context, doctorID int64) (*doctorClient.Doctor, error) {
			return nil, doctorClient.ErrServiceUnavailable
		}},
	)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
