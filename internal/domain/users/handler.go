package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/respond"
	"pet-diary/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRoutes: issuer puede ser nil (modo dev, sin tokens; se usa X-Debug-User-ID).
// authMW se aplica solo a /auth (rate limit).
func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer, authMW ...func(http.Handler) http.Handler) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Use(authMW...)
		ar.Post("/signup", signupHandler(svc, issuer))
		ar.Post("/login", loginHandler(svc, issuer))
	})

	r.Route("/me", func(mr chi.Router) {
		mr.Get("/", getMeHandler(svc))
		mr.Patch("/", updateMeHandler(svc))
	})
}

type signupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Identifier puede ser email o username; el form de login manda cualquiera de los dos.
type loginRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Identifier string `json:"identifier"`
	Password   string `json:"password" validate:"required"`
}

func (r loginRequest) identifier() string {
	for _, v := range []string{r.Identifier, r.Email, r.Username} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type updateMeRequest struct {
	Username    *string `json:"username" validate:"omitempty,max=64"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	FullName    *string `json:"full_name" validate:"omitempty,max=128"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,max=2048"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Bio         string    `json:"bio"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	MemberSince time.Time `json:"member_since"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	User      userResponse `json:"user"`
}

func signupHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		u, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				respond.Message(w, http.StatusConflict, "this email is already registered")
				return
			}
			respond.Error(w, err)
			return
		}

		writeSession(w, r, http.StatusCreated, issuer, u)
	}
}

func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil || req.identifier() == "" {
			respond.Message(w, http.StatusBadRequest, "please enter email and password")
			return
		}

		u, err := svc.Authenticate(r.Context(), req.identifier(), req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				respond.Message(w, http.StatusUnauthorized, "incorrect email or password")
				return
			}
			respond.Error(w, err)
			return
		}

		writeSession(w, r, http.StatusOK, issuer, u)
	}
}

func getMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateMeRequest
		if err := dec.Decode(&req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		u, err := svc.UpdateProfile(r.Context(), claims.UserID, ProfilePatch{
			Username:    req.Username,
			Bio:         req.Bio,
			FullName:    req.FullName,
			PhoneNumber: req.PhoneNumber,
			AvatarURL:   req.AvatarURL,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func writeSession(w http.ResponseWriter, r *http.Request, status int, issuer auth.TokenIssuer, u User) {
	resp := sessionResponse{User: toUserResponse(u)}

	if issuer != nil {
		token, exp, err := issuer.Issue(r.Context(), auth.Claims{
			UserID:   u.ID,
			Email:    u.Email,
			Username: u.Username,
		})
		if err != nil {
			respond.Message(w, http.StatusInternalServerError, "internal error")
			return
		}
		resp.Token = token
		resp.ExpiresAt = &exp
	}

	respond.JSON(w, status, resp)
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Bio:         u.Bio,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		AvatarURL:   u.AvatarURL,
		MemberSince: u.MemberSince,
		CreatedAt:   u.CreatedAt,
	}
}
