package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/platform/db"
)

const appointmentCols = "id, patient_id, doctor_id, date, slot_start, slot_end, status, issue, notes, created_at, updated_at"

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) conn(ctx context.Context) queryable {
	if tx := db.ConnFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *PgRepository) Create(ctx context.Context, a *Appointment) error {
	query := fmt.Sprintf(`
		INSERT INTO appointments (id, patient_id, doctor_id, date, slot_start, slot_end, status, issue, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, appointmentCols)

	row := r.conn(ctx).QueryRow(ctx, query,
		a.ID, a.PatientID, a.DoctorID, a.Date,
		a.Slot.StartTime, a.Slot.EndTime, a.Status, a.Issue, a.Notes)
	if err := scanAppointment(row, a); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentCols)

	var a Appointment
	if err := scanAppointment(r.conn(ctx).QueryRow(ctx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &a, nil
}

const detailQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.date, a.slot_start, a.slot_end,
	       a.status, a.issue, a.notes, a.created_at, a.updated_at,
	       pu.name, pu.email, du.name, du.id, dp.specialization, dp.consultation_fee
	FROM appointments a
	JOIN users pu ON pu.id = a.patient_id
	JOIN doctor_profiles dp ON dp.id = a.doctor_id
	JOIN users du ON du.id = dp.user_id`

func (r *PgRepository) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	var d Detail
	row := r.conn(ctx).QueryRow(ctx, detailQuery+` WHERE a.id = $1`, id)
	if err := scanDetail(row, &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment detail: %w", err)
	}
	return &d, nil
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Detail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE a.patient_id = $1 ORDER BY a.date ASC`, patientID)
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Detail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE a.doctor_id = $1 ORDER BY a.date ASC`, doctorID)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]*Detail, error) {
	return r.listDetails(ctx, detailQuery+` ORDER BY a.date DESC`)
}

func (r *PgRepository) listDetails(ctx context.Context, query string, args ...any) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var details []*Detail
	for rows.Next() {
		var d Detail
		if err := scanDetail(rows, &d); err != nil {
			return nil, fmt.Errorf("scan appointment detail: %w", err)
		}
		details = append(details, &d)
	}
	return details, rows.Err()
}

func (r *PgRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT status, count(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *PgRepository) SetStatusNotes(ctx context.Context, id uuid.UUID, status Status, notes string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status = $2, notes = $3, updated_at = now()
		WHERE id = $1`, id, status, notes)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row, a *Appointment) error {
	return row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date,
		&a.Slot.StartTime, &a.Slot.EndTime, &a.Status, &a.Issue, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
}

func scanDetail(row pgx.Row, d *Detail) error {
	return row.Scan(&d.ID, &d.PatientID, &d.DoctorID, &d.Date,
		&d.Slot.StartTime, &d.Slot.EndTime, &d.Status, &d.Issue, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt,
		&d.PatientName, &d.PatientEmail, &d.DoctorName, &d.DoctorUserID,
		&d.Specialization, &d.ConsultationFee)
}
