package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vidtube/internal/apierror"
	"vidtube/internal/media"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
	"vidtube/internal/services"
)

func TestUserService_UpdateAvatarReplacesOldAsset(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	store := new(MockMediaStore)
	svc := services.NewUserService(users, store, nil)
	user := &models.User{Base: models.Base{ID: uuid.New()}, Avatar: "https://cdn/old.png", AvatarPublicID: "old"}

	store.On("Upload", mock.Anything, "/tmp/new.png").Return(&media.Asset{URL: "https://cdn/new.png", PublicID: "new"}, nil).Once()
	users.On("Update", mock.Anything, user.ID, map[string]interface{}{"avatar": "https://cdn/new.png", "avatar_public_id": "new"}).Return(nil).Once()
	store.On("Delete", mock.Anything, "old").Return(true, nil).Once()
	users.On("GetByID", mock.Anything, user.ID).Return(&models.User{Base: user.Base, Avatar: "https://cdn/new.png"}, nil).Once()

	updated, err := svc.UpdateAvatar(ctx, user, "/tmp/new.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", updated.Avatar)
	store.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestUserService_UpdateCoverImageUploadFailure(t *testing.T) {
	users := new(MockUserRepository)
	store := new(MockMediaStore)
	svc := services.NewUserService(users, store, nil)
	user := &models.User{Base: models.Base{ID: uuid.New()}}

	store.On("Upload", mock.Anything, "/tmp/cover.png").Return(nil, errors.New("timeout")).Once()

	_, err := svc.UpdateCoverImage(context.Background(), user, "/tmp/cover.png")
	assert.Equal(t, http.StatusBadGateway, apierror.StatusOf(err))
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateAccount(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := services.NewUserService(users, new(MockMediaStore), nil)
	id := uuid.New()

	_, err := svc.UpdateAccount(ctx, id, "", "a@x.com")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	users.On("Update", mock.Anything, id, map[string]interface{}{"full_name": "Alice", "email": "taken@x.com"}).
		Return(repositories.ErrDuplicate).Once()
	_, err = svc.UpdateAccount(ctx, id, " Alice ", " Taken@X.com ")
	assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))
	users.AssertExpectations(t)
}
