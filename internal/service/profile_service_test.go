package service

import (
	"context"
	"strings"
	"testing"

	"nutriai/nutrition-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfileMergesFields(t *testing.T) {
	repo := newFakeUserRepo()
	id := repo.add(domain.User{Name: "Ana", Surname: "Souza", Email: "ana@example.com", PasswordHash: "hash", Weight: "60"})
	svc := NewProfileService(repo, nil, zap.NewNop().Sugar())
	ctx := context.Background()

	user, err := svc.UpdateProfile(ctx, id, domain.ProfileUpdate{Surname: strPtr("Lima"), BirthDate: strPtr("01/02/1995")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "Lima", user.Surname)
	assert.Equal(t, "01/02/1995", user.BirthDate)
	assert.Equal(t, "60", user.Weight)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.UpdateProfile(ctx, id, domain.ProfileUpdate{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = svc.UpdateProfile(ctx, id, domain.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
	_, err = svc.UpdateProfile(ctx, primitive.NewObjectID(), domain.ProfileUpdate{Age: strPtr("30")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSaveBodyMetrics(t *testing.T) {
	repo := newFakeUserRepo()
	id := repo.add(domain.User{Name: "Ana", Email: "ana@example.com"})
	svc := NewProfileService(repo, nil, zap.NewNop().Sugar())

	user, err := svc.SaveBodyMetrics(context.Background(), id, BodyMetrics{Name: "Ana Paula", Weight: "62", Height: "165", Age: "29"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", user.Name)
	assert.Equal(t, "62", user.Weight)
	assert.Equal(t, "165", user.Height)
	assert.Equal(t, "29", user.Age)
}

func TestAvatarUploadReplacesPreviousObjectOnConfirm(t *testing.T) {
	repo := newFakeUserRepo()
	id := repo.add(domain.User{Name: "Ana", Email: "ana@example.com"})
	oldKey := "avatars/" + id.Hex() + "/old.png"
	repo.users[id].AvatarKey = oldKey
	files := &fakeFiles{}
	files.put(oldKey)
	svc := NewProfileService(repo, files, zap.NewNop().Sugar())
	ctx := context.Background()

	up, err := svc.RequestAvatarUpload(ctx, id, "Image/PNG")
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.ContentType)
	assert.True(t, strings.HasPrefix(up.ObjectKey, "avatars/"+id.Hex()+"/"))
	assert.True(t, strings.HasSuffix(up.ObjectKey, ".png"))
	assert.Contains(t, up.UploadURL, up.ObjectKey)
	assert.Empty(t, files.deleted, "requesting a URL must not touch the current avatar")

	files.put(up.ObjectKey)
	user, err := svc.ConfirmAvatarUpload(ctx, id, up.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, up.ObjectKey, user.AvatarKey)
	assert.Equal(t, []string{oldKey}, files.deleted)

	url, err := svc.AvatarURL(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example/get/"+up.ObjectKey, url)

	// Confirming twice is a no-op.
	_, err = svc.ConfirmAvatarUpload(ctx, id, up.ObjectKey)
	require.NoError(t, err)
	assert.Len(t, files.deleted, 1)
}

func TestAbandonedAvatarUploadKeepsCurrentAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	id := repo.add(domain.User{Name: "Ana", Email: "ana@example.com"})
	oldKey := "avatars/" + id.Hex() + "/old.png"
	repo.users[id].AvatarKey = oldKey
	files := &fakeFiles{}
	files.put(oldKey)
	svc := NewProfileService(repo, files, zap.NewNop().Sugar())
	ctx := context.Background()

	up, err := svc.RequestAvatarUpload(ctx, id, "image/jpeg")
	require.NoError(t, err)

	// The PUT never happened.
	_, err = svc.ConfirmAvatarUpload(ctx, id, up.ObjectKey)
	assert.ErrorIs(t, err, ErrAvatarNotUploaded)

	url, err := svc.AvatarURL(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example/get/"+oldKey, url)
	assert.Empty(t, files.deleted)
}

func TestConfirmAvatarRejectsForeignKeys(t *testing.T) {
	repo := newFakeUserRepo()
	id := repo.add(domain.User{Name: "Ana", Email: "ana@example.com"})
	other := primitive.NewObjectID()
	files := &fakeFiles{}
	svc := NewProfileService(repo, files, zap.NewNop().Sugar())
	ctx := context.Background()

	for _, key := range []string{
		"avatars/" + other.Hex() + "/x.png",
		"avatars/" + id.Hex() + "/../" + other.Hex() + "/x.png",
		"uploads/x.png",
	} {
		files.put(key)
		_, err := svc.ConfirmAvatarUpload(ctx, id, key)
		assert.ErrorIs(t, err, ErrForeignAvatarKey, key)
	}
}

func TestAvatarRejectsNonImagesAndMissingAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	id := repo.add(domain.User{Name: "Ana", Email: "ana@example.com"})
	svc := NewProfileService(repo, &fakeFiles{}, zap.NewNop().Sugar())
	ctx := context.Background()

	_, err := svc.RequestAvatarUpload(ctx, id, "video/mp4")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
	_, err = svc.AvatarURL(ctx, id)
	assert.ErrorIs(t, err, ErrNoAvatar)

	noStorage := NewProfileService(repo, nil, zap.NewNop().Sugar())
	_, err = noStorage.RequestAvatarUpload(ctx, id, "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	_, err = noStorage.ConfirmAvatarUpload(ctx, id, "avatars/"+id.Hex()+"/a.png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
