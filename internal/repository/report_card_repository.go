package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/pkg/database"
)

const reportCardFrom = ` FROM report_cards rc
JOIN students s ON s.id = rc.student_id
JOIN users su ON su.id = s.user_id`

const reportCardSelect = `SELECT rc.id, rc.student_id, rc.term, rc.year, rc.overall_grade, rc.remarks, rc.created_by, rc.created_at, rc.updated_at,
s.id AS "student.id", s.admission_number AS "student.admission_number", su.full_name AS "student.full_name"` + reportCardFrom

// ReportCardRepository persists report cards and their grade links.
type ReportCardRepository struct {
	db     *sqlx.DB
	grades *GradeRepository
}

// NewReportCardRepository instantiates the repository.
func NewReportCardRepository(db *sqlx.DB, grades *GradeRepository) *ReportCardRepository {
	if grades == nil {
		grades = NewGradeRepository(db)
	}
	return &ReportCardRepository{db: db, grades: grades}
}

// List returns report cards visible to the caller with their grades.
func (r *ReportCardRepository) List(ctx context.Context, p *models.Principal, filter models.ReportCardFilter) ([]models.ReportCardDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceReportCards, p, "rc")
	if filter.StudentID != "" {
		f.add("rc.student_id = $%d", filter.StudentID)
	}
	if filter.Term != "" {
		f.add("rc.term = $%d", filter.Term)
	}
	if filter.Year > 0 {
		f.add("rc.year = $%d", filter.Year)
	}
	f.search(filter.Search, "su.full_name", "s.admission_number", "rc.overall_grade")

	order := orderBy(filter.ListQuery, map[string]string{
		"year":       "rc.year",
		"term":       "rc.term",
		"created_at": "rc.created_at",
	}, "rc.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var cards []models.ReportCardDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", reportCardSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &cards, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list report cards: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+reportCardFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count report cards: %w", err)
	}

	if err := r.attach(ctx, cards); err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// Get returns a report card visible to the caller with its grades.
func (r *ReportCardRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.ReportCardDetail, error) {
	var f filterSet
	f.add("rc.id = $%d", id)
	f.visible(models.ResourceReportCards, p, "rc")

	var card models.ReportCardDetail
	if err := r.db.GetContext(ctx, &card, reportCardSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get report card: %w", err)
	}
	cards := []models.ReportCardDetail{card}
	if err := r.attach(ctx, cards); err != nil {
		return nil, err
	}
	return &cards[0], nil
}

func (r *ReportCardRepository) attach(ctx context.Context, cards []models.ReportCardDetail) error {
	if len(cards) == 0 {
		return nil
	}
	grades, err := r.grades.ListForReportCards(ctx, collectIDs(cards, func(c models.ReportCardDetail) string { return c.ID }))
	if err != nil {
		return err
	}
	for i := range cards {
		cards[i].Grades = grades[cards[i].ID]
		if cards[i].Grades == nil {
			cards[i].Grades = []models.GradeDetail{}
		}
	}
	return nil
}

// Create inserts a report card and links the given grades of the same student.
func (r *ReportCardRepository) Create(ctx context.Context, card *models.ReportCard, gradeIDs []string) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO report_cards (id, student_id, term, year, overall_grade, remarks, created_by, created_at, updated_at) VALUES (:id, :student_id, :term, :year, :overall_grade, :remarks, :created_by, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, card); err != nil {
			return fmt.Errorf("create report card: %w", err)
		}
		return replaceLinks(ctx, tx, "report_card_grades", "report_card_id", "grade_id", card.ID, gradeIDs, studentGradeSource, card.StudentID)
	})
}

// Update modifies a report card. A nil gradeIDs leaves the links unchanged.
func (r *ReportCardRepository) Update(ctx context.Context, card *models.ReportCard, gradeIDs []string) error {
	card.UpdatedAt = time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `UPDATE report_cards SET student_id = :student_id, term = :term, year = :year, overall_grade = :overall_grade, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, card); err != nil {
			return fmt.Errorf("update report card: %w", err)
		}
		if gradeIDs == nil {
			return nil
		}
		return replaceLinks(ctx, tx, "report_card_grades", "report_card_id", "grade_id", card.ID, gradeIDs, studentGradeSource, card.StudentID)
	})
}

// Delete removes a report card and its grade links.
func (r *ReportCardRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM report_cards WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete report card: %w", err)
	}
	return nil
}
