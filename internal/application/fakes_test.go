package application

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
	"github.com/oksasatya/users-backend/internal/domain/repository"
	"github.com/oksasatya/users-backend/internal/domain/valueobject"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		if !u.IsDeleted() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetDeleted(_ context.Context) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0)
	for _, u := range f.users {
		if u.IsDeleted() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) GetByUserName(_ context.Context, userName string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.UserName() == userName {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email valueobject.Email) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email().Equals(email) {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email().Equals(u.Email()) || existing.UserName() == u.UserName() {
			return fmt.Errorf("%w: duplicate user", apperr.ErrConflict)
		}
	}
	f.users[u.ID()] = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID()]; !ok {
		return apperr.ErrNotFound
	}
	f.users[u.ID()] = u
	return nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u.SoftDelete()
	return u, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	delete(f.users, id)
	return u, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
