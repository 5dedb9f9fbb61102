package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/dto"
	"shop-admin-gateway/internal/entities"
)

const (
	sessionEventsTable  = "session_events"
	sessionEventsFields = "id, kind, email, role, token_hash, created_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type AuditRepositoryInterface interface {
	Insert(ctx context.Context, event entities.SessionEvent) error
	GetAll(ctx context.Context, filter dto.AuditFilterDTO) ([]*entities.SessionEvent, uint64, error)
}

type AuditRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAuditRepository(db *pgxpool.Pool, logger *zap.Logger) AuditRepositoryInterface {
	return &AuditRepository{db: db, logger: logger}
}

func (r *AuditRepository) Insert(ctx context.Context, event entities.SessionEvent) error {
	query, args, err := psql.
		Insert(sessionEventsTable).
		Columns("id", "kind", "email", "role", "token_hash", "created_at").
		Values(event.ID, event.Kind, event.Email, event.Role, event.TokenHash, event.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("не удалось собрать запрос вставки события: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("не удалось записать событие сессии: %w", err)
	}
	return nil
}

func (r *AuditRepository) GetAll(ctx context.Context, filter dto.AuditFilterDTO) ([]*entities.SessionEvent, uint64, error) {
	builder := psql.
		Select(sessionEventsFields).
		From(sessionEventsTable).
		OrderBy("created_at DESC")

	countBuilder := psql.
		Select("COUNT(*)").
		From(sessionEventsTable)

	if filter.Kind.Valid {
		builder = builder.Where(sq.Eq{"kind": filter.Kind.String})
		countBuilder = countBuilder.Where(sq.Eq{"kind": filter.Kind.String})
	}
	if filter.Email.Valid {
		builder = builder.Where(sq.Eq{"email": filter.Email.String})
		countBuilder = countBuilder.Where(sq.Eq{"email": filter.Email.String})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.DateFrom})
		countBuilder = countBuilder.Where(sq.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		builder = builder.Where(sq.LtOrEq{"created_at": *filter.DateTo})
		countBuilder = countBuilder.Where(sq.LtOrEq{"created_at": *filter.DateTo})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
		if filter.Page > 1 {
			builder = builder.Offset(uint64((filter.Page - 1) * filter.Limit))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось собрать запрос списка событий: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось получить события сессий: %w", err)
	}
	defer rows.Close()

	var events []*entities.SessionEvent
	for rows.Next() {
		var event entities.SessionEvent
		if err := rows.Scan(&event.ID, &event.Kind, &event.Email, &event.Role, &event.TokenHash, &event.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("не удалось прочитать событие сессии: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось собрать запрос подсчёта событий: %w", err)
	}

	var total uint64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("не удалось посчитать события сессий: %w", err)
	}

	return events, total, nil
}
