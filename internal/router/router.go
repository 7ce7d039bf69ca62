package router

import (
	"context"
	"net/http"

	mem "pet-diary/internal/adapters/storage/memory"
	"pet-diary/internal/domain/diary"
	"pet-diary/internal/domain/pets"
	"pet-diary/internal/domain/users"
	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/logger"
	"pet-diary/internal/platform/respond"
	"pet-diary/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Repos agrupa los repositorios de un backend (mongo, postgres o memory).
type Repos struct {
	Users users.Repository
	Pets  pets.Repository
	Diary diary.Repository
}

// MemoryRepos es el backend in-memory (dev y tests).
func MemoryRepos() Repos {
	return Repos{
		Users: mem.NewUserRepo(),
		Pets:  mem.NewPetRepo(),
		Diary: mem.NewDiaryRepo(),
	}
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (sin tokens)
	TokenIssuer  auth.TokenIssuer  // puede ser nil

	// Acepta X-Debug-User-ID. Nunca en producción.
	AllowDebugUser bool

	Logger logger.Logger

	// Si nil, in-memory.
	Repos *Repos

	// Health opcional: ping a la base. Error => 503.
	Health func(ctx context.Context) error

	// Rate limit por IP en /auth. RPS <= 0 => sin límite.
	AuthRPS   float64
	AuthBurst int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, opts.AllowDebugUser))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(req.Context()); err != nil {
				log.Warn("health check failed", map[string]any{"error": err.Error()})
				respond.Error(w, err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	repos := MemoryRepos()
	if opts.Repos != nil {
		repos = *opts.Repos
	}

	// Services por módulo
	usersSvc := users.NewService(repos.Users)
	petsSvc := pets.NewService(repos.Pets, usersSvc)
	diarySvc := diary.NewService(repos.Diary, petsSvc)

	// Borrar un pet borra su diario.
	petsSvc.SetPostCleaner(diarySvc)

	// Rutas por módulo
	var authMW []func(http.Handler) http.Handler
	if opts.AuthRPS > 0 {
		authMW = append(authMW, middleware.RateLimit(opts.AuthRPS, max(opts.AuthBurst, 1)))
	}
	users.RegisterRoutes(r, usersSvc, opts.TokenIssuer, authMW...)
	pets.RegisterRoutes(r, petsSvc)
	diary.RegisterRoutes(r, diarySvc)

	return r
}
