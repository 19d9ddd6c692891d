package store

import (
	"context"
	"fmt"
	"time"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var submissionColumns = utils.StructTagValues(types.Submission{})

type SubmissionRepository struct {
	db DBTX
}

func NewSubmissionRepository(db DBTX) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) CreateSubmission(ctx context.Context, submission *types.Submission) error {
	submission.Status = types.SubmissionStatusPending
	submission.CreatedAt = time.Now()
	if submission.Tags == nil {
		submission.Tags = []string{}
	}

	submissionMap := utils.StructToMap(submission)
	delete(submissionMap, "id")
	submissionMap["tags"] = utils.MustMarshalJSON(submission.Tags)

	query, args, err := psql().
		Insert(submissionTableName).
		SetMap(submissionMap).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert submission query: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&submission.ID)
	if isForeignKeyViolation(err) {
		return types.NewValidationError("categoryId", "does not match a known category")
	}
	return utils.ErrorWrapOrNil(err, "failed to create submission")
}

func (r *SubmissionRepository) SubmissionsByStatus(ctx context.Context, status types.SubmissionStatus) ([]*types.SubmissionListing, error) {
	query, args, err := psql().
		Select(utils.PrefixSliceOfStrings("ps", submissionColumns)...).
		Columns("c.name AS category_name", "c.icon AS category_icon").
		From(submissionTableName + " ps").
		LeftJoin(categoryTableName + " c ON c.id = ps.primary_category_id").
		Where(sq.Eq{"ps.status": string(status)}).
		OrderBy("ps.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate submissions query: %w", err)
	}

	var submissions = make([]*types.SubmissionListing, 0)
	err = pgxscan.Select(ctx, r.db, &submissions, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	return submissions, nil
}

// SubmissionForUpdate loads a submission and locks its row until the
// surrounding transaction ends.
func (r *SubmissionRepository) SubmissionForUpdate(ctx context.Context, id int64) (*types.Submission, error) {
	query, args, err := psql().
		Select(submissionColumns...).
		From(submissionTableName).
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate submission query: %w", err)
	}

	var submission = new(types.Submission)
	err = pgxscan.Get(ctx, r.db, submission, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to fetch submission %d: %w", id, err)
	}

	if err != nil {
		return nil, types.ErrSubmissionNotFound
	}

	return submission, nil
}

// MarkReviewed moves a pending submission to status. It only matches rows
// that are still pending.
func (r *SubmissionRepository) MarkReviewed(ctx context.Context, id int64, status types.SubmissionStatus, reviewedBy *string, reviewedAt time.Time, resourceID *int64) error {
	query, args, err := psql().
		Update(submissionTableName).
		SetMap(map[string]any{
			"status":      string(status),
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
			"resource_id": resourceID,
		}).
		Where(sq.Eq{"id": id, "status": string(types.SubmissionStatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate review submission query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to review submission %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %d is no longer pending: %w", id, types.ErrInvalidTransition)
	}

	return nil
}
