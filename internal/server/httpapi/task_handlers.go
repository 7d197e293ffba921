package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/gin-gonic/gin"
)

// TaskService is implemented by services.TaskService.
type TaskService interface {
	List(ctx context.Context, user *models.User) ([]*models.Task, error)
	Create(ctx context.Context, user *models.User, in services.CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, user *models.User, id string) (*models.Task, error)
	Update(ctx context.Context, user *models.User, id string, in services.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, user *models.User, id string) error
}

// ListTasksHandler returns the handler for GET /api/tasks.
func ListTasksHandler(svc TaskService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := svc.List(c.Request.Context(), principal(c).User)
		if err != nil {
			respondWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	}
}

// CreateTaskHandler returns the handler for POST /api/tasks.
func CreateTaskHandler(svc TaskService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateTaskInput
		if err := bindJSON(c, &in); err != nil {
			respondWithError(c, logger, err)
			return
		}

		task, err := svc.Create(c.Request.Context(), principal(c).User, in)
		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Task created successfully!",
			"task":    task,
		})
	}
}

// GetTaskHandler returns the handler for GET /api/tasks/:id.
func GetTaskHandler(svc TaskService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := svc.Get(c.Request.Context(), principal(c).User, c.Param("id"))
		if err != nil {
			respondWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"task": task})
	}
}

// UpdateTaskHandler returns the handler for PUT and PATCH /api/tasks/:id.
// A body that cannot be bound is reported only once the requester is known
// to own the task.
func UpdateTaskHandler(svc TaskService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.UpdateTaskInput
		if err := bindJSON(c, &in); err != nil {
			if _, getErr := svc.Get(c.Request.Context(), principal(c).User, c.Param("id")); getErr != nil {
				err = getErr
			}
			respondWithError(c, logger, err)
			return
		}

		task, err := svc.Update(c.Request.Context(), principal(c).User, c.Param("id"), in)
		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Task updated successfully!",
			"task":    task,
		})
	}
}

// DeleteTaskHandler returns the handler for DELETE /api/tasks/:id.
func DeleteTaskHandler(svc TaskService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), principal(c).User, c.Param("id")); err != nil {
			respondWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully!"})
	}
}
