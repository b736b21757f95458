package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ippeitanaka/orienteering-sub000/storage"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	lastKey         string
	lastContentType string
	uploadErr       error
}

func (u *fakeUploader) Upload(_ context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.lastKey = key
	u.lastContentType = contentType
	return &storage.UploadResult{Key: key, Location: "https://assets.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(context.Context, string) error { return nil }

func (u *fakeUploader) GetPublicURL(key string) string { return "https://assets.example.com/" + key }

func seedOneCheckpoint(t *testing.T) (CheckpointService, int) {
	t.Helper()
	service, _ := newCheckpointService(t)
	cp, err := service.Create(context.Background(), CheckpointInput{
		Name: "正門", Latitude: 35.68, Longitude: 139.76, Points: 10,
	})
	require.NoError(t, err)
	return service, cp.ID
}

func TestQRCodeCheckpointPNG_EncodesCheckinURL(t *testing.T) {
	checkpoints, cpID := seedOneCheckpoint(t)

	var gotContent string
	var gotSize int
	encode := func(content string, _ qrcode.RecoveryLevel, size int) ([]byte, error) {
		gotContent = content
		gotSize = size
		return []byte("png-bytes"), nil
	}

	service := NewQRCodeService(checkpoints, nil, "https://event.example.com", encode)

	png, err := service.CheckpointPNG(context.Background(), cpID, 256)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), png)
	assert.Equal(t, "https://event.example.com/checkin?checkpoint_id=1", gotContent)
	assert.Equal(t, 256, gotSize)
}

func TestQRCodeCheckpointPNG_InvalidSize(t *testing.T) {
	checkpoints, cpID := seedOneCheckpoint(t)
	service := NewQRCodeService(checkpoints, nil, "https://event.example.com", nil)

	for _, size := range []int{0, -128} {
		_, err := service.CheckpointPNG(context.Background(), cpID, size)
		assert.ErrorIs(t, err, ErrQRCodeInvalidSize)
	}
}

func TestQRCodeCheckpointPNG_UnknownCheckpoint(t *testing.T) {
	checkpoints, _ := newCheckpointService(t)
	service := NewQRCodeService(checkpoints, nil, "https://event.example.com", nil)

	_, err := service.CheckpointPNG(context.Background(), 999, 256)
	assert.ErrorIs(t, err, ErrCheckpointNotFound)
}

func TestQRCodeCheckpointPNG_EncoderFailure(t *testing.T) {
	checkpoints, cpID := seedOneCheckpoint(t)
	encode := func(string, qrcode.RecoveryLevel, int) ([]byte, error) {
		return nil, errors.New("content too long")
	}
	service := NewQRCodeService(checkpoints, nil, "https://event.example.com", encode)

	_, err := service.CheckpointPNG(context.Background(), cpID, 256)
	require.Error(t, err)
}

func TestQRCodePublish(t *testing.T) {
	checkpoints, cpID := seedOneCheckpoint(t)
	uploader := &fakeUploader{}
	encode := func(string, qrcode.RecoveryLevel, int) ([]byte, error) {
		return []byte("png-bytes"), nil
	}
	service := NewQRCodeService(checkpoints, uploader, "https://event.example.com", encode)

	url, err := service.PublishCheckpointPNG(context.Background(), cpID, 512)
	require.NoError(t, err)
	assert.Equal(t, "https://assets.example.com/qrcodes/checkpoint-1.png", url)
	assert.Equal(t, "qrcodes/checkpoint-1.png", uploader.lastKey)
	assert.Equal(t, "image/png", uploader.lastContentType)
}

func TestQRCodePublish_WithoutUploader(t *testing.T) {
	checkpoints, cpID := seedOneCheckpoint(t)
	service := NewQRCodeService(checkpoints, nil, "https://event.example.com", nil)

	_, err := service.PublishCheckpointPNG(context.Background(), cpID, 512)
	assert.ErrorIs(t, err, ErrUploaderNotConfigured)
}

func TestQRCodePublish_UploadFailure(t *testing.T) {
	checkpoints, cpID := seedOneCheckpoint(t)
	uploader := &fakeUploader{uploadErr: errors.New("bucket unavailable")}
	encode := func(string, qrcode.RecoveryLevel, int) ([]byte, error) {
		return []byte("png-bytes"), nil
	}
	service := NewQRCodeService(checkpoints, uploader, "https://event.example.com", encode)

	_, err := service.PublishCheckpointPNG(context.Background(), cpID, 512)
	require.Error(t, err)
}
