package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/helpers"
)

// AuditRepository handles database operations for the audit log
type AuditRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Record writes one audit entry. Old and new values are marshalled to JSON;
// the table's check constraint expects old values on UPDATE/DELETE and new
// values on INSERT/UPDATE.
func (r *AuditRepository) Record(ctx context.Context, tableName, recordID, action string, oldValues, newValues interface{}, userID *string) error {
	var oldJSON, newJSON []byte
	var err error

	if oldValues != nil {
		if oldJSON, err = json.Marshal(oldValues); err != nil {
			return fmt.Errorf("error marshalling old values: %w", err)
		}
	}
	if newValues != nil {
		if newJSON, err = json.Marshal(newValues); err != nil {
			return fmt.Errorf("error marshalling new values: %w", err)
		}
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_log (id, table_name, record_id, action, old_values, new_values, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), tableName, recordID, action, oldJSON, newJSON, userID)
	if err != nil {
		return fmt.Errorf("error recording audit entry: %w", err)
	}

	return nil
}

// List retrieves audit entries, newest first, optionally scoped to one table
func (r *AuditRepository) List(ctx context.Context, tableName string, page, size int) ([]*models.AuditEntry, int64, error) {
	countSelect := r.sb.Select("COUNT(*)").From("audit_log")
	baseSelect := r.sb.Select(
		"id, table_name, record_id, action, old_values, new_values, user_id, timestamp").
		From("audit_log")

	if tableName != "" {
		countSelect = countSelect.Where(squirrel.Eq{"table_name": tableName})
		baseSelect = baseSelect.Where(squirrel.Eq{"table_name": tableName})
	}

	countSQL, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}
	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("error counting audit entries: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	listSQL, listArgs, err := baseSelect.
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		var oldJSON, newJSON []byte
		if err := rows.Scan(&entry.ID, &entry.TableName, &entry.RecordID, &entry.Action,
			&oldJSON, &newJSON, &entry.UserID, &entry.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("error scanning audit entry: %w", err)
		}
		if len(oldJSON) > 0 {
			var old interface{}
			if err := json.Unmarshal(oldJSON, &old); err == nil {
				entry.OldValues = old
			}
		}
		if len(newJSON) > 0 {
			var updated interface{}
			if err := json.Unmarshal(newJSON, &updated); err == nil {
				entry.NewValues = updated
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entries, totalItems, nil
}
