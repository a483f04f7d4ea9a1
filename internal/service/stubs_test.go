package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"odontofast/internal/domain"
	"odontofast/internal/ml"
)

// fakeUserRepo implementa repository.UserRepository en memoria para tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
		if user.ID > repo.nextID {
			repo.nextID = user.ID
		}
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

// fakeImageRepo implementa repository.UserImageRepository en memoria.
type fakeImageRepo struct {
	mu     sync.Mutex
	images map[int64]domain.UserImage
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[int64]domain.UserImage)}
}

func (r *fakeImageRepo) GetByUserID(_ context.Context, userID int64) (domain.UserImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	image, ok := r.images[userID]
	if !ok {
		return domain.UserImage{}, pgx.ErrNoRows
	}
	return image, nil
}

func (r *fakeImageRepo) Create(_ context.Context, image domain.UserImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[image.UserID] = image
	return nil
}

func (r *fakeImageRepo) Update(_ context.Context, image domain.UserImage) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.images[image.UserID]; !ok {
		return false, nil
	}
	r.images[image.UserID] = image
	return true, nil
}

func (r *fakeImageRepo) Delete(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.images[userID]; !ok {
		return false, nil
	}
	delete(r.images, userID)
	return true, nil
}

func (r *fakeImageRepo) Exists(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.images[userID]
	return ok, nil
}

// fakePredictionLog implementa repository.PredictionLogRepository en memoria.
type fakePredictionLog struct {
	mu      sync.Mutex
	records []domain.PredictionRecord
}

func (r *fakePredictionLog) Create(_ context.Context, record domain.PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *fakePredictionLog) ListByUser(_ context.Context, userID int64, _ int) ([]domain.PredictionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PredictionRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

// emptySampleSource fuerza el fallo del entrenamiento.
type emptySampleSource struct{}

func (emptySampleSource) Samples() []ml.Sample { return nil }
