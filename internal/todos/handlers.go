package todos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/abbasrizvi-lab/todoapp/internal/auth"
	"github.com/abbasrizvi-lab/todoapp/internal/db"
	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
)

// Store is the owner-scoped slice of the todo repository the handlers use.
type Store interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, title, description string) (*db.Todo, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]db.Todo, error)
	Update(ctx context.Context, id, ownerID primitive.ObjectID, update db.TodoUpdate) (*db.Todo, error)
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (req *CreateRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "title is required"
	}
	if req.Description == "" {
		fields["description"] = "description is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// UpdateRequest uses pointers so an absent field and an explicit zero value
// are distinguishable; absent fields never overwrite stored values.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (req *UpdateRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Title != nil && *req.Title == "" {
		fields["title"] = "title must not be empty"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (req *UpdateRequest) toUpdate() db.TodoUpdate {
	return db.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

type Handlers struct {
	store Store
}

func NewHandlers(store Store) *Handlers {
	return &Handlers{store: store}
}

func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) error {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		return apperrors.Unauthorized()
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if fields := req.validate(); fields != nil {
		return apperrors.ValidationFailed(fields)
	}

	todo, err := h.store.Create(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		return apperrors.DatabaseError("failed to create todo").WithCause(err)
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, todo)
	return nil
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) error {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		return apperrors.Unauthorized()
	}

	todos, err := h.store.ListByOwner(r.Context(), user.ID)
	if err != nil {
		return apperrors.DatabaseError("failed to get todos").WithCause(err)
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, todos)
	return nil
}

func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) error {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		return apperrors.Unauthorized()
	}

	id, err := todoID(r)
	if err != nil {
		return apperrors.NotFound("todo")
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if fields := req.validate(); fields != nil {
		return apperrors.ValidationFailed(fields)
	}

	todo, err := h.store.Update(r.Context(), id, user.ID, req.toUpdate())
	if err != nil {
		if errors.Is(err, db.ErrTodoNotFound) {
			return apperrors.NotFound("todo")
		}
		return apperrors.DatabaseError("failed to update todo").WithCause(err)
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, todo)
	return nil
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) error {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		return apperrors.Unauthorized()
	}

	id, err := todoID(r)
	if err != nil {
		return apperrors.NotFound("todo")
	}

	if err := h.store.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrTodoNotFound) {
			return apperrors.NotFound("todo")
		}
		return apperrors.DatabaseError("failed to delete todo").WithCause(err)
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusNoContent, nil)
	return nil
}

// todoID parses the path id. A malformed id maps to NotFound upstream: no
// such todo can exist, and the response must not reveal more than that.
func todoID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(r.PathValue("id"))
}
