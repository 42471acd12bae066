package postgres

import (
	"context"
	"errors"
	"fmt"

	"clubmembers/internal/domain/payment"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPaymentRepository(pool *pgxpool.Pool, log *slog.Logger) *PaymentRepository {
	return &PaymentRepository{
		pool: pool,
		log:  log.With("component", "payment_repository"),
	}
}

func (r *PaymentRepository) ListByMember(ctx context.Context, uid string, memberID int64) ([]payment.Payment, error) {
	if err := r.ownsMember(ctx, uid, memberID); err != nil {
		return nil, err
	}

	const query = `
		SELECT id, created_at, amount, member_id
		FROM payments
		WHERE member_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		r.log.Error("failed to list payments", "member_id", memberID, "error", err)
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []payment.Payment
	for rows.Next() {
		var p payment.Payment
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Amount, &p.MemberID); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}

// Insert добавляет оплату; id назначает база.
func (r *PaymentRepository) Insert(ctx context.Context, uid string, p payment.Payment) (payment.Payment, error) {
	const query = `
		INSERT INTO payments (created_at, amount, member_id)
		SELECT $1, $2, m.id FROM members m WHERE m.id = $3 AND m.uid = $4::uuid
		RETURNING id, created_at, amount, member_id`

	var out payment.Payment
	err := r.pool.QueryRow(ctx, query, p.CreatedAt, p.Amount, p.MemberID, uid).
		Scan(&out.ID, &out.CreatedAt, &out.Amount, &out.MemberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.Payment{}, payment.ErrMemberNotFound
		}
		r.log.Error("failed to insert payment", "member_id", p.MemberID, "error", err)
		return payment.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return out, nil
}

// Upsert вставляет или перезаписывает оплату с заданным id.
// Чужие оплаты и оплаты чужих записей не изменяются.
func (r *PaymentRepository) Upsert(ctx context.Context, uid string, p payment.Payment) error {
	const query = `
		INSERT INTO payments (id, created_at, amount, member_id)
		SELECT $1, $2, $3, m.id FROM members m WHERE m.id = $4 AND m.uid = $5::uuid
		ON CONFLICT (id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			amount = EXCLUDED.amount,
			member_id = EXCLUDED.member_id
		WHERE payments.member_id IN (SELECT id FROM members WHERE uid = $5::uuid)`

	result, err := r.pool.Exec(ctx, query, p.ID, p.CreatedAt, p.Amount, p.MemberID, uid)
	if err != nil {
		r.log.Error("failed to upsert payment", "id", p.ID, "error", err)
		return fmt.Errorf("upsert payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return payment.ErrMemberNotFound
	}
	return nil
}

func (r *PaymentRepository) ownsMember(ctx context.Context, uid string, memberID int64) error {
	const query = `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1 AND uid = $2::uuid)`

	var ok bool
	if err := r.pool.QueryRow(ctx, query, memberID, uid).Scan(&ok); err != nil {
		r.log.Error("failed to check member owner", "member_id", memberID, "error", err)
		return fmt.Errorf("check member owner: %w", err)
	}
	if !ok {
		return payment.ErrMemberNotFound
	}
	return nil
}
