package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
	"github.com/google/uuid"
)

const titleRules = "required,max=255"

// CreateTaskInput is the body of POST /api/tasks.
type CreateTaskInput struct {
	Title       models.OptionalString `json:"title"`
	Description models.OptionalString `json:"description"`
}

// UpdateTaskInput is the body of PUT/PATCH /api/tasks/{id}. Absent fields
// are left untouched.
type UpdateTaskInput struct {
	Title       models.OptionalString `json:"title"`
	Description models.OptionalString `json:"description"`
	IsCompleted models.OptionalBool   `json:"is_completed"`
}

// TaskService runs task operations on behalf of an authenticated user. Every
// operation on a single task goes through ownedTask.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m, validator: validation.New()}
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, user *models.User) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, internal(err)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, user *models.User, in CreateTaskInput) (*models.Task, error) {
	verr := common.NewValidationError()

	title := s.checkTitle(verr, in.Title)
	description := checkDescription(verr, in.Description)

	if verr.HasErrors() {
		return nil, verr
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		UserID:      user.ID,
		Title:       title,
		Description: description,
		IsCompleted: false,
	})
	if err != nil {
		return nil, internal(err)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, user *models.User, id string) (*models.Task, error) {
	return s.ownedTask(ctx, s.db, user, id)
}

// Update checks ownership before validating in, writes only the fields
// present in the body and returns the task as stored.
func (s *TaskService) Update(ctx context.Context, user *models.User, id string, in UpdateTaskInput) (*models.Task, error) {
	var task *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := s.ownedTask(ctx, tx, user, id)
		if err != nil {
			return err
		}

		patch, verr := s.buildPatch(in)
		if verr.HasErrors() {
			return verr
		}

		repo := s.repomanager.Tasks(tx)
		if !patch.Empty() {
			if err := repo.Update(ctx, current.ID, patch); err != nil {
				return err
			}
		}

		task, err = repo.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, taskError(err)
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, user *models.User, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		task, err := s.ownedTask(ctx, tx, user, id)
		if err != nil {
			return err
		}
		return s.repomanager.Tasks(tx).Delete(ctx, task.ID)
	})
	if err != nil {
		return taskError(err)
	}
	return nil
}

// ownedTask loads id and applies models.Owns. Malformed ids, missing tasks
// and tasks of other users are all common.ErrorForbidden.
func (s *TaskService) ownedTask(ctx context.Context, db dbx.DBTX, user *models.User, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorForbidden
	}

	task, err := s.repomanager.Tasks(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorForbidden
		}
		return nil, internal(err)
	}

	if !models.Owns(user, task) {
		return nil, common.ErrorForbidden
	}
	return task, nil
}

func (s *TaskService) buildPatch(in UpdateTaskInput) (models.TaskPatch, *common.ValidationError) {
	verr := common.NewValidationError()
	var patch models.TaskPatch

	if in.Title.Set {
		title := s.checkTitle(verr, in.Title)
		patch.Title = &title
	}

	if in.Description.Set {
		patch.Description = checkDescription(verr, in.Description)
		patch.SetDescription = true
	}

	if in.IsCompleted.Set {
		if in.IsCompleted.Null || in.IsCompleted.Invalid {
			verr.Add("is_completed", validation.Message("is_completed", "boolean", ""))
		} else {
			done := in.IsCompleted.Value
			patch.IsCompleted = &done
		}
	}

	return patch, verr
}

// checkTitle trims the title and records its rule violations. A blank title
// counts as missing.
func (s *TaskService) checkTitle(verr *common.ValidationError, in models.OptionalString) string {
	if in.Invalid {
		verr.Add("title", validation.Message("title", "string", ""))
		return ""
	}

	title := strings.TrimSpace(in.Value)
	for _, msg := range s.validator.Var("title", title, titleRules) {
		verr.Add("title", msg)
	}
	return title
}

// checkDescription trims the description; blank becomes nil.
func checkDescription(verr *common.ValidationError, in models.OptionalString) *string {
	if in.Invalid {
		verr.Add("description", validation.Message("description", "string", ""))
		return nil
	}

	p := in.Ptr()
	if p == nil {
		return nil
	}
	d := strings.TrimSpace(*p)
	if d == "" {
		return nil
	}
	return &d
}

func taskError(err error) error {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr
	case errors.Is(err, common.ErrorForbidden), errors.Is(err, common.ErrorInternal):
		return err
	case errors.Is(err, common.ErrorNotFound):
		// deleted by a concurrent request between the check and the write
		return common.ErrorForbidden
	}
	return internal(err)
}
