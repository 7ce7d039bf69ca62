package diary

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-diary/internal/domain/pets"
	"pet-diary/internal/ports/storage"
)

// -------------------------
// Test doubles (in-memory)
// -------------------------

type testRepo struct {
	byID      map[string]Post
	lastLimit int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Post{}}
}

func (r *testRepo) Create(ctx context.Context, p Post) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return Post{}, storage.ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListForPet(ctx context.Context, petID, ownerID string, limit int) ([]Post, error) {
	r.lastLimit = limit
	out := make([]Post, 0)
	for _, p := range r.byID {
		if p.PetID == petID && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *testRepo) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *testRepo) DeleteForPet(ctx context.Context, petID, ownerID string) (int64, error) {
	var n int64
	for id, p := range r.byID {
		if p.PetID == petID && p.OwnerID == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

type testPets map[string]pets.Pet

func (tp testPets) GetForOwner(ctx context.Context, petID, ownerID string) (pets.Pet, error) {
	p, ok := tp[petID]
	if !ok || p.OwnerID != ownerID {
		return pets.Pet{}, storage.ErrNotFound
	}
	return p, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, testPets{
		"pet-1": {ID: "pet-1", OwnerID: "owner-1", Name: "Milo", Type: pets.PetTypeDog},
	})
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t1 := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)

	first, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Title: "Walk", CreatedAt: t1})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Title: "Walk", CreatedAt: t2})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := svc.ListForPet(ctx, "pet-1", "owner-1", 10)
	if err != nil {
		t.Fatalf("ListForPet returned error: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected [T2, T1], got %#v", got)
	}
}

func TestService_Create_RequiresOwnedPet(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "pet-1", "owner-2", CreateInput{Title: "Hi"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign pet, got %v", err)
	}
	if _, err := svc.Create(ctx, "pet-404", "owner-1", CreateInput{Title: "Hi"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing pet, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestService_Create_DefaultsAndValidation(t *testing.T) {
	svc, _ := newTestService()
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Title: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank title, got %v", err)
	}

	p, err := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Title: "Nap", PhotoURL: " /uploads/nap.jpg "})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !p.CreatedAt.Equal(now) {
		t.Fatalf("expected CreatedAt=now, got %s", p.CreatedAt)
	}
	if !p.IsPublic {
		t.Fatalf("posts are public by default")
	}
	if p.OwnerID != "owner-1" || p.PhotoURL != "/uploads/nap.jpg" {
		t.Fatalf("unexpected post %+v", p)
	}
}

func TestService_Create_TruncatesToMillis(t *testing.T) {
	svc, _ := newTestService()
	now := time.Date(2025, 12, 22, 10, 0, 0, 123456789, time.UTC)
	svc.now = func() time.Time { return now }
	want := time.Date(2025, 12, 22, 10, 0, 0, 123000000, time.UTC)

	p, err := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Title: "Nap"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !p.CreatedAt.Equal(want) {
		t.Fatalf("expected CreatedAt=%s, got %s", want, p.CreatedAt)
	}

	got, err := svc.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("stored CreatedAt %s differs from returned %s", got.CreatedAt, p.CreatedAt)
	}

	// También el instante explícito.
	p, err = svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Title: "Walk", CreatedAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.CreatedAt.Nanosecond() != 123000000 {
		t.Fatalf("expected millisecond precision, got %d ns", p.CreatedAt.Nanosecond())
	}
}

func TestService_ListForPet_NormalizesLimit(t *testing.T) {
	svc, repo := newTestService()

	cases := map[int]int{0: DefaultLimit, -5: DefaultLimit, 10: 10, 1000: MaxLimit}
	for in, want := range cases {
		if _, err := svc.ListForPet(context.Background(), "pet-1", "owner-1", in); err != nil {
			t.Fatalf("ListForPet returned error: %v", err)
		}
		if repo.lastLimit != want {
			t.Fatalf("limit %d normalized to %d, want %d", in, repo.lastLimit, want)
		}
	}
}

func TestService_ListForPet_LimitBoundsResult(t *testing.T) {
	svc, _ := newTestService()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Title: "p", CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	got, _ := svc.ListForPet(context.Background(), "pet-1", "owner-1", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("posts not in non-increasing order at %d", i)
		}
	}
}

func TestService_Delete_OwnerScoped(t *testing.T) {
	svc, repo := newTestService()
	p, _ := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Title: "Walk"})

	if err := svc.Delete(context.Background(), p.ID, "owner-2"); err != nil {
		t.Fatalf("Delete by other owner should be a no-op, got %v", err)
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatalf("post must survive delete by another owner")
	}

	if err := svc.Delete(context.Background(), p.ID, "owner-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_DeleteForPet(t *testing.T) {
	svc, repo := newTestService()
	for i := 0; i < 3; i++ {
		_, _ = svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Title: "p"})
	}

	if err := svc.DeleteForPet(context.Background(), "pet-1", "owner-1"); err != nil {
		t.Fatalf("DeleteForPet returned error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected all posts removed, %d left", len(repo.byID))
	}
}
