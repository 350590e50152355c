package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-booking-api/model"
	"go-booking-api/repository"
	"time"
)

const userCacheTTL = 10 * time.Minute

// UserService serves user profiles with a cache-aside strategy. Only the
// public profile shape is cached; booking and session state never is.
type UserService struct {
	repo  repository.IUserRepository
	cache ICacheClient
}

func NewUserService(repo repository.IUserRepository, cache ICacheClient) *UserService {
	return &UserService{repo: repo, cache: cache}
}

func userCacheKey(id int) string {
	return fmt.Sprintf("users:%d", id)
}

// GetPublicByID returns the public profile for the user, from cache when
// fresh.
func (s *UserService) GetPublicByID(ctx context.Context, id int) (*model.UserPublic, error) {
	key := userCacheKey(id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var public model.UserPublic
			if err := json.Unmarshal([]byte(cached), &public); err == nil {
				return &public, nil
			}
		}
	}

	user, err := s.repo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	public := user.Public()

	if s.cache != nil {
		if data, err := json.Marshal(public); err == nil {
			s.cache.Set(ctx, key, data, userCacheTTL)
		}
	}
	return &public, nil
}

// Invalidate drops the cached profile, called after any profile mutation
// such as linking a Google account.
func (s *UserService) Invalidate(ctx context.Context, id int) {
	if s.cache != nil {
		s.cache.Del(ctx, userCacheKey(id))
	}
}
