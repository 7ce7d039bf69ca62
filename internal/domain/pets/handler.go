package pets

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/respond"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func RegisterRoutes(r chi.Router, svc *Service) {
	// Todo es owner-only: el owner sale de las claims, nunca del body.
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))

		pr.Get("/{petID}/reminders", getRemindersHandler(svc))
		pr.Put("/{petID}/reminders", saveRemindersHandler(svc))
	})
}

type createPetRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	PetType  string   `json:"pet_type" validate:"required"`
	Age      int      `json:"age" validate:"gte=0"`
	Weight   *float64 `json:"weight" validate:"omitempty,gte=0"`
	Breed    string   `json:"breed" validate:"max=100"`
	Tags     []string `json:"tags" validate:"max=20"`
	PhotoURL string   `json:"photo_url" validate:"max=2048"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name     *string   `json:"name" validate:"omitempty,max=100"`
	PetType  *string   `json:"pet_type"`
	Age      *int      `json:"age" validate:"omitempty,gte=0"`
	Weight   *float64  `json:"weight" validate:"omitempty,gte=0"`
	Breed    *string   `json:"breed" validate:"omitempty,max=100"`
	Tags     *[]string `json:"tags"`
	PhotoURL *string   `json:"photo_url" validate:"omitempty,max=2048"`
}

type reminderDTO struct {
	Text string `json:"text" validate:"max=200"`
	Done bool   `json:"done"`
}

type saveRemindersRequest struct {
	Reminders []reminderDTO `json:"reminders" validate:"max=50,dive"`
}

type petResponse struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"owner_id"`
	Name      string        `json:"name"`
	PetType   PetType       `json:"pet_type"`
	Age       int           `json:"age"`
	Weight    *float64      `json:"weight,omitempty"`
	Breed     string        `json:"breed"`
	Tags      []string      `json:"tags"`
	PhotoURL  string        `json:"photo_url,omitempty"`
	Reminders []reminderDTO `json:"reminders"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.Create(r.Context(), userID, CreateInput{
			Name:     req.Name,
			Type:     req.PetType,
			Age:      req.Age,
			Weight:   req.Weight,
			Breed:    req.Breed,
			Tags:     req.Tags,
			PhotoURL: req.PhotoURL,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}

		respond.JSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		p, err := svc.GetForOwner(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePetRequest
		if err := dec.Decode(&req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), userID, UpdateInput{
			Name:     req.Name,
			Type:     req.PetType,
			Age:      req.Age,
			Weight:   req.Weight,
			Breed:    req.Breed,
			Tags:     req.Tags,
			PhotoURL: req.PhotoURL,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), userID); err != nil {
			respond.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		items, err := svc.Reminders(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"reminders": toReminderDTOs(items)})
	}
}

func saveRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req saveRemindersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		in := make([]Reminder, 0, len(req.Reminders))
		for _, rm := range req.Reminders {
			in = append(in, Reminder{Text: rm.Text, Done: rm.Done})
		}

		p, err := svc.SetReminders(r.Context(), chi.URLParam(r, "petID"), userID, in)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"reminders": toReminderDTOs(p.Reminders)})
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

func toPetResponse(p Pet) petResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return petResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		PetType:   p.Type,
		Age:       p.Age,
		Weight:    p.Weight,
		Breed:     p.Breed,
		Tags:      tags,
		PhotoURL:  p.PhotoURL,
		Reminders: toReminderDTOs(p.Reminders),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toReminderDTOs(in []Reminder) []reminderDTO {
	out := make([]reminderDTO, 0, len(in))
	for _, r := range in {
		out = append(out, reminderDTO{Text: r.Text, Done: r.Done})
	}
	return out
}
