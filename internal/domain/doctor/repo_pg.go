package doctor

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

const profileCols = "id, user_id, specialization, description, experience_years, consultation_fee, available_slots, created_at, updated_at"

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

func (r *PgRepository) Create(ctx context.Context, p *Profile) error {
	if p.AvailableSlots == nil {
		p.AvailableSlots = []DayAvailability{}
	}
	query := fmt.Sprintf(`
		INSERT INTO doctor_profiles (id, user_id, specialization, description, experience_years, consultation_fee, available_slots)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, profileCols)

	row := r.conn(ctx).QueryRow(ctx, query,
		p.ID, p.UserID, p.Specialization, p.Description,
		p.ExperienceYears, p.ConsultationFee, p.AvailableSlots)
	if err := scanProfile(row, p); err != nil {
		return fmt.Errorf("insert doctor profile: %w", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctor_profiles WHERE id = $1`, profileCols)
	return r.getOne(ctx, query, id)
}

func (r *PgRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctor_profiles WHERE user_id = $1`, profileCols)
	return r.getOne(ctx, query, userID)
}

func (r *PgRepository) getOne(ctx context.Context, query string, arg any) (*Profile, error) {
	var p Profile
	if err := scanProfile(r.conn(ctx).QueryRow(ctx, query, arg), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	return &p, nil
}

const infoQuery = `
	SELECT p.id, p.user_id, p.specialization, p.description, p.experience_years,
	       p.consultation_fee, p.available_slots, p.created_at, p.updated_at,
	       u.name, u.email, u.phone
	FROM doctor_profiles p
	JOIN users u ON u.id = p.user_id`

func (r *PgRepository) GetInfo(ctx context.Context, id uuid.UUID) (*Info, error) {
	var info Info
	row := r.conn(ctx).QueryRow(ctx, infoQuery+` WHERE p.id = $1`, id)
	if err := scanInfo(row, &info); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get doctor info: %w", err)
	}
	return &info, nil
}

func (r *PgRepository) ListInfo(ctx context.Context) ([]*Info, error) {
	rows, err := r.conn(ctx).Query(ctx, infoQuery+` ORDER BY u.name`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var infos []*Info
	for rows.Next() {
		var info Info
		if err := scanInfo(rows, &info); err != nil {
			return nil, fmt.Errorf("scan doctor info: %w", err)
		}
		infos = append(infos, &info)
	}
	return infos, rows.Err()
}

func (r *PgRepository) UpdateSlots(ctx context.Context, id uuid.UUID, slots []DayAvailability) error {
	if slots == nil {
		slots = []DayAvailability{}
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor_profiles SET available_slots = $2, updated_at = now()
		WHERE id = $1`, id, slots)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row, p *Profile) error {
	return row.Scan(&p.ID, &p.UserID, &p.Specialization, &p.Description,
		&p.ExperienceYears, &p.ConsultationFee, &p.AvailableSlots,
		&p.CreatedAt, &p.UpdatedAt)
}

func scanInfo(row pgx.Row, info *Info) error {
	return row.Scan(&info.ID, &info.UserID, &info.Specialization, &info.Description,
		&info.ExperienceYears, &info.ConsultationFee, &info.AvailableSlots,
		&info.CreatedAt, &info.UpdatedAt, &info.Name, &info.Email, &info.Phone)
}
