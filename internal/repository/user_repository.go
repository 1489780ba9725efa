package repository

import (
	"context"

	"umb_panel/internal/entities"
	"umb_panel/internal/infrastructure"
)

// UserRepository wraps the management backend's /users collection.
// Admin-only on the backend side; the panel additionally guards these routes
// with its own role check.
type UserRepository struct {
	backend *infrastructure.BackendClient
}

func NewUserRepository(backend *infrastructure.BackendClient) *UserRepository {
	return &UserRepository{backend: backend}
}

func (r *UserRepository) GetAll(ctx context.Context, sess *entities.Session) ([]entities.User, error) {
	var users []entities.User
	if err := r.backend.Get(ctx, sess, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, sess *entities.Session, id string) (*entities.User, error) {
	var user entities.User
	if err := r.backend.Get(ctx, sess, "/users/"+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, sess *entities.Session, user *entities.User) (*entities.User, error) {
	var created entities.User
	if err := r.backend.Post(ctx, sess, "/users", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *UserRepository) Update(ctx context.Context, sess *entities.Session, id string, user *entities.User) (*entities.User, error) {
	var updated entities.User
	if err := r.backend.Put(ctx, sess, "/users/"+id, user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *UserRepository) Delete(ctx context.Context, sess *entities.Session, id string) error {
	return r.backend.Delete(ctx, sess, "/users/"+id)
}

func (r *UserRepository) SetActive(ctx context.Context, sess *entities.Session, id string, active bool) (*entities.User, error) {
	var updated entities.User
	body := map[string]bool{"active": active}
	if err := r.backend.Put(ctx, sess, "/users/"+id, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *UserRepository) SetRole(ctx context.Context, sess *entities.Session, id, role string) (*entities.User, error) {
	var updated entities.User
	body := map[string]string{"role": role}
	if err := r.backend.Put(ctx, sess, "/users/"+id, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
