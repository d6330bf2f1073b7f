package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
	repo "github.com/oksasatya/users-backend/internal/domain/repository"
	"github.com/oksasatya/users-backend/internal/domain/valueobject"
	"github.com/oksasatya/users-backend/pkg/helpers"
)

// CreateUserInput carries the fields for the administrative create path.
type CreateUserInput struct {
	Name     string
	LastName string
	Email    string
	UserName string
	Password string
	Role     entity.Role
}

// UpdateUserInput carries a full profile replacement plus optional email and
// password changes (empty password means keep the current one).
type UpdateUserInput struct {
	Name     string
	LastName string
	Email    string
	UserName string
	Password string
}

// UserService is the administrative and profile use-case layer over the user
// aggregate.
type UserService struct {
	repo         repo.UserRepository
	logger       *logrus.Logger
	es           *elasticsearch.Client // optional
	esUsersIndex string
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *UserService {
	return &UserService{repo: r, logger: logger, es: es, esUsersIndex: esUsersIndex}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	emailVO, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByEmail(ctx, emailVO)
}

func (s *UserService) GetByUserName(ctx context.Context, userName string) (*entity.User, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("%w: username is required", apperr.ErrInvalidArgument)
	}
	return s.repo.GetByUserName(ctx, userName)
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) ListDeleted(ctx context.Context) ([]*entity.User, error) {
	return s.repo.GetDeleted(ctx)
}

// Create is the administrative create path: unlike self-registration it returns
// the created user rather than tokens. Email and username uniqueness are both
// enforced.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	emailVO, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetByEmail(ctx, emailVO); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing, err := s.repo.GetByUserName(ctx, in.UserName); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username already taken", apperr.ErrConflict)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	u, err := entity.NewUser(in.Name, in.LastName, in.Email, in.UserName, helpers.HashPassword(in.Password), in.Role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": u.ID(), "username": u.UserName()}).Info("user created")
	_ = s.indexUser(ctx, u)
	return u, nil
}

// Update replaces the profile and optionally changes email and password.
// Cross-user uniqueness is re-checked for changed email/username.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != u.Email().String() {
		emailVO, err := valueobject.NewEmail(in.Email)
		if err != nil {
			return nil, err
		}
		if other, err := s.repo.GetByEmail(ctx, emailVO); err == nil && other != nil && other.ID() != id {
			return nil, fmt.Errorf("%w: email already in use", apperr.ErrConflict)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		if err := u.ChangeEmail(in.Email); err != nil {
			return nil, err
		}
	}

	if in.UserName != u.UserName() {
		if other, err := s.repo.GetByUserName(ctx, in.UserName); err == nil && other != nil && other.ID() != id {
			return nil, fmt.Errorf("%w: username already taken", apperr.ErrConflict)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}

	if err := u.UpdateProfile(in.Name, in.LastName, in.UserName); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err := u.ChangePassword(helpers.HashPassword(in.Password)); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", u.ID()).Info("user updated")
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) SoftDelete(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", id).Info("user soft-deleted")
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) HardDelete(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", id).Info("user hard-deleted")
	s.deleteFromIndex(ctx, id)
	return u, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.es == nil || s.esUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID(),
		"email":      u.Email().String(),
		"username":   u.UserName(),
		"name":       u.Name(),
		"last_name":  u.LastName(),
		"role":       u.Role().String(),
		"is_deleted": u.IsDeleted(),
		"created_at": u.CreatedAt().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.esUsersIndex, DocumentID: u.ID(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.es)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID()).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.logger.WithField("status", res.Status()).WithField("user_id", u.ID()).Warn("es index response error")
	}
	return nil
}

func (s *UserService) deleteFromIndex(ctx context.Context, id string) {
	if s.es == nil || s.esUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.esUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.es)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match over email, username and name.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.es == nil || s.esUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "username^2", "name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.es.Search(
		s.es.Search.WithContext(c),
		s.es.Search.WithIndex(s.esUsersIndex),
		s.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
