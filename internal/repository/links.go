package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrInvalidReference reports that a linked id does not exist or has the wrong role.
var ErrInvalidReference = errors.New("invalid reference")

// Row sources accepted as link targets.
const (
	subjectSource = `SELECT id FROM subjects`
	teacherSource = `SELECT id FROM users WHERE role = 'teacher'`
	parentSource  = `SELECT id FROM users WHERE role = 'parent'`
	// studentGradeSource admits only grades belonging to the student bound to $3.
	studentGradeSource = `SELECT id FROM grades WHERE student_id = $3::uuid`
)

// replaceLinks rewrites the join rows of ownerID in table so they point at
// exactly targetIDs. Every target must be produced by source, which may use
// placeholders from $3 on, bound to sourceArgs.
func replaceLinks(ctx context.Context, tx *sqlx.Tx, table, ownerCol, targetCol, ownerID string, targetIDs []string, source string, sourceArgs ...interface{}) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, ownerCol), ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	ids := unique(targetIDs)
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO %s (%s, %s) SELECT $1::uuid, src.id FROM (%s) src WHERE src.id = ANY($2::uuid[])", table, ownerCol, targetCol, source)
	args := append([]interface{}{ownerID, pq.Array(ids)}, sourceArgs...)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("link %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("link %s: %w", table, err)
	}
	if int(affected) != len(ids) {
		return fmt.Errorf("%s: %w", targetCol, ErrInvalidReference)
	}
	return nil
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func collectIDs[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}
