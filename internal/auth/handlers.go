package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/abbasrizvi-lab/todoapp/internal/db"
	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *SignupRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	} else if !emailRegex.MatchString(req.Email) {
		fields["email"] = "invalid email format"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Email == "" {
		fields["email"] = "email is required"
	} else if !emailRegex.MatchString(req.Email) {
		fields["email"] = "invalid email format"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        *db.User `json:"user"`
}

type Handlers struct {
	authService *Service
}

func NewHandlers(authService *Service) *Handlers {
	return &Handlers{authService: authService}
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) error {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if fields := req.validate(); fields != nil {
		return apperrors.ValidationFailed(fields)
	}

	user, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, db.ErrEmailExists) {
			return apperrors.EmailExists()
		}
		return apperrors.DatabaseError("failed to create user").WithCause(err)
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, user)
	return nil
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if fields := req.validate(); fields != nil {
		return apperrors.ValidationFailed(fields)
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrUserNotFound):
			return apperrors.UserNotFound()
		case errors.Is(err, ErrIncorrectPassword):
			return apperrors.IncorrectPassword()
		default:
			return apperrors.DatabaseError("login failed").WithCause(err)
		}
	}

	resp := LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, resp)
	return nil
}
