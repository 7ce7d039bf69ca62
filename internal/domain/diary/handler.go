package diary

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/respond"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/diary", func(dr chi.Router) {
		dr.Post("/", createPostHandler(svc))
		dr.Get("/", listPostsHandler(svc))
	})

	r.Route("/diary/{postID}", func(dr chi.Router) {
		dr.Get("/", getPostHandler(svc))
		dr.Delete("/", deletePostHandler(svc))
	})
}

type createPostRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
	PhotoURL    string `json:"photo_url" validate:"max=2048"`
	CreatedAt   string `json:"created_at"` // RFC3339 opcional
}

type postResponse struct {
	ID          string    `json:"id"`
	PetID       string    `json:"pet_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsPublic    bool      `json:"is_public"`
}

func createPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		var createdAt time.Time
		if strings.TrimSpace(req.CreatedAt) != "" {
			t, err := time.Parse(time.RFC3339, req.CreatedAt)
			if err != nil {
				respond.Message(w, http.StatusBadRequest, "created_at must be RFC3339")
				return
			}
			createdAt = t
		}

		p, err := svc.Create(r.Context(), chi.URLParam(r, "petID"), userID, CreateInput{
			Title:       req.Title,
			Description: req.Description,
			PhotoURL:    req.PhotoURL,
			CreatedAt:   createdAt,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}

		respond.JSON(w, http.StatusCreated, toPostResponse(p))
	}
}

func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		limit := 0
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				respond.Message(w, http.StatusBadRequest, "limit must be an integer")
				return
			}
			limit = n
		}

		items, err := svc.ListForPet(r.Context(), chi.URLParam(r, "petID"), userID, limit)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out := make([]postResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPostResponse(p))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func getPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUserID(w, r); !ok {
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPostResponse(p))
	}
}

func deletePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "postID"), userID); err != nil {
			respond.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		respond.Message(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:          p.ID,
		PetID:       p.PetID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		PhotoURL:    p.PhotoURL,
		CreatedAt:   p.CreatedAt,
		IsPublic:    p.IsPublic,
	}
}
