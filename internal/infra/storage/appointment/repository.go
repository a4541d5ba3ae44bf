package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на приём
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Проверка пересечения слотов и вставка должны выполняться в одной сериализуемой
// транзакции — иначе две конкурентные записи к одному врачу могут обе пройти проверку.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"patient_id",
			"doctor_id",
			"department",
			"slot_start",
			"slot_end",
			"status",
			"reschedule_count",
		).
		Values(
			appt.PatientID,
			appt.DoctorID,
			appt.Department,
			appt.Slot.Start,
			appt.Slot.End,
			appt.Status,
			appt.RescheduleCount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectAppointments().
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: статус и счётчик переносов
	// будут изменяться после проверок
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// FindOverlapping возвращает активные (SCHEDULED) записи врача, пересекающиеся с интервалом.
// Пересечение полуоткрытых интервалов: existing.start < end AND start < existing.end,
// совпадающие границы пересечением не считаются.
// excludeID исключает одну запись из проверки (используется при переносе этой же записи).
// Внутри транзакции добавляет FOR UPDATE для сериализации check-then-act по врачу.
func (r *Repository) FindOverlapping(ctx context.Context, doctorID int64, slot domain.Slot, excludeID *int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectAppointments().
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.Eq{"status": domain.StatusScheduled}).
		Where(squirrel.Lt{"slot_start": slot.End}).
		Where(squirrel.Gt{"slot_end": slot.Start})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByPatientID получает список записей пациента
// Опционально фильтрует по статусу
func (r *Repository) GetByPatientID(ctx context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return r.getByOwner(ctx, squirrel.Eq{"patient_id": patientID}, status, "GetByPatientID")
}

// GetByDoctorID получает список записей врача
// Опционально фильтрует по статусу
func (r *Repository) GetByDoctorID(ctx context.Context, doctorID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return r.getByOwner(ctx, squirrel.Eq{"doctor_id": doctorID}, status, "GetByDoctorID")
}

// UpdateSlot атомарно переносит запись: новый интервал + инкремент счётчика переносов
func (r *Repository) UpdateSlot(ctx context.Context, id int64, slot domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("slot_start", slot.Start).
		Set("slot_end", slot.End).
		Set("reschedule_count", squirrel.Expr("reschedule_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusScheduled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateSlot", ErrAppointmentNotFound)
}

// UpdateStatus переводит запись из SCHEDULED в указанный статус (compare-and-set).
// Условие status = SCHEDULED в WHERE защищает терминальные статусы от перезаписи
// конкурирующим переходом: проигравший запрос не затрагивает ни одной строки.
// При переходе в CANCELLED дополнительно фиксирует время отмены.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusScheduled})

	if status == domain.StatusCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus", ErrAppointmentNotScheduled)
}

// getByOwner общая выборка записей по пациенту или врачу
func (r *Repository) getByOwner(ctx context.Context, owner squirrel.Eq, status *domain.AppointmentStatus, method string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectAppointments().
		Where(owner).
		OrderBy("slot_start DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string, noRowsErr error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return noRowsErr
	}

	return nil
}

func (r *Repository) selectAppointments() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"patient_id",
		"doctor_id",
		"department",
		"slot_start",
		"slot_end",
		"status",
		"reschedule_count",
		"cancelled_at",
		"created_at",
		"updated_at",
	).From("appointments")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в доменную модель
func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.PatientID,
		&appt.DoctorID,
		&appt.Department,
		&appt.Slot.Start,
		&appt.Slot.End,
		&appt.Status,
		&appt.RescheduleCount,
		&appt.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
