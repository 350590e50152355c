// service/user_service_test.go
package service

import (
	"context"
	"database/sql"
	"go-booking-api/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserService_GetPublicByID(t *testing.T) {
	userRepo := new(mockUserRepo)
	userService := NewUserService(userRepo, nil)

	user := &model.User{
		ID:              2,
		Email:           "user@example.com",
		FullName:        sql.NullString{String: "Some User", Valid: true},
		HashedPassword:  sql.NullString{String: "$2a$12$hash", Valid: true},
		IsGoogleAccount: false,
	}
	userRepo.On("GetUserByID", 2).Return(user, nil).Once()

	public, err := userService.GetPublicByID(context.Background(), 2)

	assert.NoError(t, err)
	assert.Equal(t, 2, public.ID)
	assert.Equal(t, "user@example.com", public.Email)
	assert.Equal(t, "Some User", public.FullName)
	userRepo.AssertExpectations(t)
}

func TestUserService_GetPublicByID_NotFound(t *testing.T) {
	userRepo := new(mockUserRepo)
	userService := NewUserService(userRepo, nil)

	userRepo.On("GetUserByID", 99).Return(nil, sql.ErrNoRows).Once()

	_, err := userService.GetPublicByID(context.Background(), 99)

	assert.ErrorIs(t, err, sql.ErrNoRows)
}
