package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ineedcourier/order-service/internal/entities"
	"github.com/ineedcourier/order-service/internal/service"
	"github.com/ineedcourier/order-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (entities.Business, error)
	Login(ctx context.Context, email, password string) (string, entities.Business, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	BusinessID string `json:"businessId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type RegisterRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone" validate:"omitempty,e164"`
}

type RegisterResponse struct {
	BusinessID string `json:"businessId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type AuthHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      AuthService
}

func NewAuthHandler(logger *slog.Logger, svc AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger.With(slog.String("handler", "auth")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *AuthHandler) Init(r chi.Router) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	token, business, err := h.svc.Login(ctx, req.Email, req.Password)
	if errors.Is(err, entities.ErrInvalidCredentials) {
		utils.WriteError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "login failed", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteData(w, LoginResponse{
		Token:      token,
		BusinessID: business.BusinessID,
		Name:       business.Name,
		Email:      business.Email,
	}, "Login successful", http.StatusOK)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	business, err := h.svc.Register(ctx, service.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
	})
	if errors.Is(err, entities.ErrEmailTaken) {
		utils.WriteError(w, "email is already registered", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteData(w, RegisterResponse{
		BusinessID: business.BusinessID,
		Name:       business.Name,
		Email:      business.Email,
	}, "Business registered successfully", http.StatusCreated)
}
