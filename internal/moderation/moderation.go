package moderation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"humanaid/internal/normalize"
	"humanaid/internal/store"
	"humanaid/internal/utils"
	"humanaid/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Tx is what an approval or rejection may touch. Every call made through it
// commits or rolls back together.
type Tx interface {
	SubmissionForUpdate(ctx context.Context, id int64) (*types.Submission, error)
	MarkReviewed(ctx context.Context, id int64, status types.SubmissionStatus, reviewedBy *string, reviewedAt time.Time, resourceID *int64) error
	CreateResource(ctx context.Context, resource *types.Resource, point types.GeoPoint) (int64, error)
	CategoryByID(ctx context.Context, id int64) (*types.Category, error)
	normalize.Writer
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type transactorUnit struct {
	transactor *store.Transactor
}

// FromTransactor adapts a store.Transactor to UnitOfWork.
func FromTransactor(t *store.Transactor) UnitOfWork {
	return transactorUnit{transactor: t}
}

func (u transactorUnit) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return u.transactor.WithinTx(ctx, func(ctx context.Context, repos *store.TxRepositories) error {
		return fn(ctx, repos)
	})
}

// SubmissionStore covers the single statement operations that need no
// transaction.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, submission *types.Submission) error
	SubmissionsByStatus(ctx context.Context, status types.SubmissionStatus) ([]*types.SubmissionListing, error)
}

type TransitionObserver interface {
	ObserveTransition(action types.ReviewAction)
}

type Service struct {
	logger     *logrus.Logger
	validate   *validator.Validate
	store      SubmissionStore
	uow        UnitOfWork
	normalizer *normalize.Normalizer
	observer   TransitionObserver

	defaultPoint types.GeoPoint
	now          func() time.Time
}

func New(
	logger *logrus.Logger,
	submissions SubmissionStore,
	uow UnitOfWork,
	normalizer *normalize.Normalizer,
	observer TransitionObserver,
	defaultPoint types.GeoPoint,
) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		logger:       logger,
		validate:     v,
		store:        submissions,
		uow:          uow,
		normalizer:   normalizer,
		observer:     observer,
		defaultPoint: defaultPoint,
		now:          time.Now,
	}
}

// next is the submission state machine. Only pending submissions move, and
// only to the state named by the action.
func next(status types.SubmissionStatus, action types.ReviewAction) (types.SubmissionStatus, error) {
	if status != types.SubmissionStatusPending {
		return "", fmt.Errorf("%w: submission is already %s (%w)", types.ErrInvalidTransition, status, types.ErrSubmissionNotFound)
	}

	switch action {
	case types.ReviewActionApprove:
		return types.SubmissionStatusApproved, nil
	case types.ReviewActionReject:
		return types.SubmissionStatusRejected, nil
	}

	return "", types.ErrInvalidAction
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// Submit validates a public submission and stores it as pending. Duplicates
// of existing resources are accepted; moderation is where they get caught.
func (s *Service) Submit(ctx context.Context, input types.SubmissionInput) (*types.Submission, error) {
	trimInput(&input)

	if err := s.validate.Struct(&input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate submission: %w", err)
		}

		verr := &types.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
		for _, fe := range fieldErrs {
			verr.Fields[fe.Field()] = validationMessage(fe)
		}
		return nil, verr
	}

	submission := submissionFromInput(input)
	if err := s.store.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": submission.ID,
		"category_id":   input.CategoryID,
	}).Info("submission received")

	return submission, nil
}

// Submissions lists submissions in the given status, pending by default.
func (s *Service) Submissions(ctx context.Context, status types.SubmissionStatus) ([]*types.SubmissionListing, error) {
	if status == "" {
		status = types.SubmissionStatusPending
	}
	if !status.Valid() {
		return nil, types.NewValidationError("status", "must be one of: pending approved rejected")
	}

	return s.store.SubmissionsByStatus(ctx, status)
}

// Review approves or rejects a pending submission. All writes happen in one
// unit of work; any failure leaves both the submission and the resources
// table untouched.
func (s *Service) Review(ctx context.Context, id int64, input types.ReviewInput) (*types.ReviewOutcome, error) {
	if input.Action != types.ReviewActionApprove && input.Action != types.ReviewActionReject {
		return nil, types.ErrInvalidAction
	}

	var outcome *types.ReviewOutcome
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		submission, err := tx.SubmissionForUpdate(ctx, id)
		if err != nil {
			return err
		}

		status, err := next(submission.Status, input.Action)
		if err != nil {
			return err
		}

		reviewedBy := utils.StringPtrOrNil(strings.TrimSpace(input.ReviewedBy))
		reviewedAt := s.now()

		outcome = &types.ReviewOutcome{SubmissionID: id, Status: status}
		if status == types.SubmissionStatusApproved {
			err = s.publish(ctx, tx, submission, reviewedAt, outcome)
			if err != nil {
				return err
			}
		}

		return tx.MarkReviewed(ctx, id, status, reviewedBy, reviewedAt, outcome.ResourceID)
	})
	if err != nil {
		return nil, err
	}

	if s.observer != nil {
		s.observer.ObserveTransition(input.Action)
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"status":        outcome.Status,
		"resource_id":   outcome.ResourceID,
	}).Info("submission reviewed")

	return outcome, nil
}

// publish copies the submission into a new live resource at the configured
// placeholder point and normalizes its category signal.
func (s *Service) publish(ctx context.Context, tx Tx, submission *types.Submission, at time.Time, outcome *types.ReviewOutcome) error {
	raw := make([]string, 0, len(submission.Tags)+1)
	if submission.PrimaryCategoryID != nil {
		category, err := tx.CategoryByID(ctx, *submission.PrimaryCategoryID)
		if err != nil && !errors.Is(err, types.ErrCategoryNotFound) {
			return err
		}
		if category != nil {
			raw = append(raw, category.Name)
		}
	}
	raw = append(raw, submission.Tags...)

	resource := resourceFromSubmission(submission)
	resource.Slug = utils.SlugWithSuffix(submission.Name, utils.Base36(submission.ID), utils.Base36(at.Unix()))

	resourceID, err := tx.CreateResource(ctx, resource, s.defaultPoint)
	if err != nil {
		return err
	}

	plan, err := s.normalizer.Apply(ctx, tx, normalize.Input{
		ResourceID:     resourceID,
		Raw:            raw,
		Description:    utils.PtrString(submission.Description),
		FoodDistOnsite: submission.FoodDistOnsite,
	})
	if err != nil {
		return fmt.Errorf("failed to normalize resource %d: %w", resourceID, err)
	}

	outcome.ResourceID = &resourceID
	outcome.Slug = resource.Slug
	outcome.Primary = plan.Primary
	outcome.Tags = plan.Tags

	return nil
}
