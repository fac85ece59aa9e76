package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

func validImageInput() CreateImageInput {
	return CreateImageInput{
		StorageKey:   "uploads/2024/photo.png",
		URL:          "https://cdn.example.com/uploads/2024/photo.png",
		OriginalName: "photo.png",
		Bytes:        2048,
		Width:        640,
		Height:       480,
		Format:       "png",
	}
}

func TestCreateImageRegistersAttachment(t *testing.T) {
	service := NewImageService(newFakeImageRepo())

	image, err := service.CreateImage(context.Background(), validImageInput())
	require.NoError(t, err)

	assert.Regexp(t, `^img_[0-9a-z]{16}$`, image.PublicID)
	assert.Equal(t, "uploads/2024/photo.png", image.StorageKey)
	assert.Equal(t, int64(2048), image.Bytes)
	assert.Equal(t, "png", image.Format)
}

func TestCreateImageRejectsInvalidURL(t *testing.T) {
	service := NewImageService(newFakeImageRepo())

	input := validImageInput()
	input.URL = "not a url"

	_, err := service.CreateImage(context.Background(), input)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestCreateImageDuplicateStorageKeyConflicts(t *testing.T) {
	service := NewImageService(newFakeImageRepo())

	_, err := service.CreateImage(context.Background(), validImageInput())
	require.NoError(t, err)

	_, err = service.CreateImage(context.Background(), validImageInput())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestGetImageNotFound(t *testing.T) {
	service := NewImageService(newFakeImageRepo())

	_, err := service.GetImage(context.Background(), "img_doesnotexist0001")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestListImagesReturnsTotal(t *testing.T) {
	repo := newFakeImageRepo()
	service := NewImageService(repo)

	first := validImageInput()
	second := validImageInput()
	second.StorageKey = "uploads/2024/other.png"
	second.URL = "https://cdn.example.com/uploads/2024/other.png"

	_, err := service.CreateImage(context.Background(), first)
	require.NoError(t, err)
	_, err = service.CreateImage(context.Background(), second)
	require.NoError(t, err)

	images, total, err := service.ListImages(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, images, 1)
	assert.Equal(t, int64(2), total)
}
