package client

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"dashboard/internal/models"
	"dashboard/internal/ordering"
)

// TodoAPI is the part of the service the Controller depends on.
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]models.RawTodo, error)
	AddTodo(ctx context.Context, todo models.RawTodo) error
	EditTodo(ctx context.Context, oldName string, todo models.RawTodo) (string, error)
	RemoveTodo(ctx context.Context, name string) (string, error)
}

// Fields are the user editable parts of a todo.
type Fields struct {
	Name        string          `validate:"required,todokey"`
	Description string
	Priority    models.Priority `validate:"omitempty,oneof=ASAP High Medium Low Reminder"`
	DoneBy      *time.Time
}

// Controller keeps the published, ordered todo list in sync with the service.
type Controller struct {
	api      TodoAPI
	logger   *logrus.Logger
	validate *validator.Validate
	now      func() time.Time

	mu       sync.RWMutex
	todos    []models.Todo
	onChange func([]models.Todo)
}

// NewController returns a controller with an empty list.
func NewController(api TodoAPI, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	validate := validator.New()
	// Names whose derived key is empty could never be edited afterwards.
	_ = validate.RegisterValidation("todokey", func(fl validator.FieldLevel) bool {
		return models.DeriveKey(fl.Field().String()) != ""
	})
	return &Controller{
		api:      api,
		logger:   logger,
		validate: validate,
		now:      time.Now,
	}
}

// OnChange registers fn to receive every newly published list.
func (c *Controller) OnChange(fn func([]models.Todo)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Todos returns a copy of the published list.
func (c *Controller) Todos() []models.Todo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.todos)
}

// Refresh reloads the collection, orders it and publishes the result.
// On failure the previous list stays published.
func (c *Controller) Refresh(ctx context.Context) error {
	raw, err := c.api.ListTodos(ctx)
	if err != nil {
		c.logger.WithError(err).Error("failed to fetch todos")
		return err
	}

	sorted := ordering.Sort(models.Normalize(raw, c.now()))

	c.mu.Lock()
	c.todos = sorted
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(slices.Clone(sorted))
	}
	return nil
}

// Create adds a todo built from f, stamped with the current time, then refreshes.
func (c *Controller) Create(ctx context.Context, f Fields) error {
	todo, err := c.build(f, c.now())
	if err != nil {
		return err
	}
	if err := c.api.AddTodo(ctx, todo.Raw()); err != nil {
		c.logger.WithError(err).WithField("name", f.Name).Error("failed to add todo")
		return err
	}
	return c.Refresh(ctx)
}

// Update replaces original with a todo built from f. The creation time of original is kept.
func (c *Controller) Update(ctx context.Context, original models.Todo, f Fields) error {
	todo, err := c.build(f, original.Created)
	if err != nil {
		return err
	}
	outcome, err := c.api.EditTodo(ctx, original.Name, todo.Raw())
	if err != nil {
		c.logger.WithError(err).WithField("name", original.Name).Error("failed to edit todo")
		return err
	}
	c.logger.WithFields(logrus.Fields{"name": original.Name, "outcome": outcome}).Debug("todo edited")
	return c.Refresh(ctx)
}

// Delete removes todos named exactly name and refreshes.
func (c *Controller) Delete(ctx context.Context, name string) error {
	outcome, err := c.api.RemoveTodo(ctx, name)
	if err != nil {
		c.logger.WithError(err).WithField("name", name).Error("failed to remove todo")
		return err
	}
	c.logger.WithFields(logrus.Fields{"name": name, "outcome": outcome}).Debug("todo removed")
	return c.Refresh(ctx)
}

// Find returns the published todo with the given name.
func (c *Controller) Find(name string) (models.Todo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.todos {
		if t.Name == name {
			return t, true
		}
	}
	return models.Todo{}, false
}

func (c *Controller) build(f Fields, created time.Time) (models.Todo, error) {
	if err := c.validate.Struct(f); err != nil {
		return models.Todo{}, fmt.Errorf("invalid todo: %w", err)
	}
	priority := f.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}
	return models.Todo{
		Name:        f.Name,
		Description: f.Description,
		Priority:    priority,
		Created:     created,
		DoneBy:      f.DoneBy,
	}, nil
}
