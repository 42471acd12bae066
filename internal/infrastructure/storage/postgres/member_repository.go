package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubmembers/internal/domain/member"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

const memberColumns = `id, name, email, phone, expiration, avatar_url, updated_at, uid::text, is_deleted`

type MemberRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewMemberRepository(pool *pgxpool.Pool, log *slog.Logger) *MemberRepository {
	return &MemberRepository{
		pool: pool,
		log:  log.With("component", "member_repository"),
	}
}

func (r *MemberRepository) List(ctx context.Context, uid string, onlyLive bool) ([]member.Member, error) {
	const query = `
		SELECT ` + memberColumns + `
		FROM members
		WHERE uid = $1::uuid AND (NOT $2 OR is_deleted = FALSE)
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, uid, onlyLive)
	if err != nil {
		r.log.Error("failed to list members", "uid", uid, "error", err)
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

func (r *MemberRepository) Get(ctx context.Context, id int64) (member.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m, err := scanMember(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member.Member{}, member.ErrNotFound
		}
		r.log.Error("failed to get member", "id", id, "error", err)
		return member.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// Upsert полностью перезаписывает строку по id.
func (r *MemberRepository) Upsert(ctx context.Context, m member.Member) error {
	const query = `
		INSERT INTO members (id, name, email, phone, expiration, avatar_url, updated_at, uid, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			expiration = EXCLUDED.expiration,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = EXCLUDED.updated_at,
			uid = EXCLUDED.uid,
			is_deleted = EXCLUDED.is_deleted`

	var expiration *time.Time
	if m.Expiration != nil {
		d := member.DateOf(*m.Expiration)
		expiration = &d
	}

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Name, m.Email, m.Phone, expiration, m.AvatarURL,
		member.Stamp(m.UpdatedAt), m.UID, m.IsDeleted,
	)
	if err != nil {
		r.log.Error("failed to upsert member", "id", m.ID, "error", err)
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE members SET is_deleted = TRUE, updated_at = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, member.Stamp(at))
	if err != nil {
		r.log.Error("failed to soft delete member", "id", id, "error", err)
		return fmt.Errorf("soft delete member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return member.ErrNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (member.Member, error) {
	var m member.Member
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Expiration,
		&m.AvatarURL, &m.UpdatedAt, &m.UID, &m.IsDeleted,
	)
	if err != nil {
		return member.Member{}, err
	}
	m.UpdatedAt = member.Stamp(m.UpdatedAt)
	return m, nil
}
