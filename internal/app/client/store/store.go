package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"clubmembers/internal/domain/member"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

// timeLayout фиксированной ширины, чтобы строки сортировались как время.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

const memberColumns = `id, name, email, phone, expiration, avatar_url, payment_amount, updated_at, uid, is_deleted`

// Store локальное хранилище записей на SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	bus *Bus
	log *slog.Logger
}

// Open открывает файл базы и создает схему.
func Open(path string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	s := New(db, log)
	if err := s.initTables(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return s, nil
}

// New оборачивает уже открытое соединение без создания схемы.
func New(db *sql.DB, log *slog.Logger) *Store {
	return &Store{
		db:  db,
		bus: NewBus(log),
		log: log.With("component", "record_store"),
	}
}

func (s *Store) initTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			expiration TEXT,
			avatar_url TEXT,
			payment_amount REAL,
			updated_at TEXT NOT NULL,
			uid TEXT,
			is_deleted INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_members_deleted ON members(is_deleted);
		CREATE INDEX IF NOT EXISTS idx_members_expiration ON members(expiration);
		CREATE INDEX IF NOT EXISTS idx_members_updated ON members(updated_at);
	`)

	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Bus шина уведомлений хранилища.
func (s *Store) Bus() *Bus {
	return s.bus
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (member.Member, error) {
	var (
		m                                     member.Member
		email, phone, expiration, avatar, uid sql.NullString
		amount                                sql.NullFloat64
		updatedAt                             string
	)

	if err := row.Scan(&m.ID, &m.Name, &email, &phone, &expiration, &avatar,
		&amount, &updatedAt, &uid, &m.IsDeleted); err != nil {
		return member.Member{}, err
	}

	m.Email = nullString(email)
	m.Phone = nullString(phone)
	m.AvatarURL = nullString(avatar)
	m.UID = nullString(uid)
	if amount.Valid {
		v := amount.Float64
		m.PaymentAmount = &v
	}
	if expiration.Valid {
		exp, err := member.ParseDate(expiration.String)
		if err != nil {
			return member.Member{}, err
		}
		m.Expiration = &exp
	}

	ts, err := member.ParseTimestamp(updatedAt)
	if err != nil {
		return member.Member{}, err
	}
	m.UpdatedAt = member.Stamp(ts)

	return m, nil
}

func scanMembers(rows *sql.Rows) ([]member.Member, error) {
	defer rows.Close()

	var members []member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения записей: %w", err)
	}
	return members, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// args возвращает значения колонок для записи m (без id).
func args(m member.Member) []any {
	var expiration any
	if m.Expiration != nil {
		expiration = member.FormatDate(*m.Expiration)
	}
	var amount any
	if m.PaymentAmount != nil {
		amount = *m.PaymentAmount
	}
	return []any{
		m.Name, m.Email, m.Phone, expiration, m.AvatarURL, amount,
		formatTime(m.UpdatedAt), m.UID, m.IsDeleted,
	}
}

func formatTime(t time.Time) string {
	return member.Stamp(t).Format(timeLayout)
}

func idsJSON(ids []int64) (string, error) {
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
