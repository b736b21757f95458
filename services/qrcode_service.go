package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ippeitanaka/orienteering-sub000/storage"
	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode; injectable for tests.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

type QRCodeService interface {
	// CheckpointPNG renders the QR code teams scan at a checkpoint. The code
	// encodes the public checkin URL for that checkpoint.
	CheckpointPNG(ctx context.Context, checkpointID, size int) ([]byte, error)
	// PublishCheckpointPNG uploads the rendered code to object storage for
	// printing and returns its public URL.
	PublishCheckpointPNG(ctx context.Context, checkpointID, size int) (string, error)
}

type qrCodeService struct {
	checkpoints CheckpointService
	uploader    storage.FileUploader
	baseURL     string
	encode      QRCodeEncoder
}

// NewQRCodeService builds the QR service. uploader may be nil, which disables
// publishing while keeping inline PNG generation available.
func NewQRCodeService(checkpoints CheckpointService, uploader storage.FileUploader, baseURL string, encode QRCodeEncoder) QRCodeService {
	if encode == nil {
		encode = qrcode.Encode
	}
	return &qrCodeService{
		checkpoints: checkpoints,
		uploader:    uploader,
		baseURL:     baseURL,
		encode:      encode,
	}
}

func (s *qrCodeService) CheckpointPNG(ctx context.Context, checkpointID, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrQRCodeInvalidSize
	}

	// Ensure the checkpoint exists so posters for deleted checkpoints
	// cannot be produced.
	if _, err := s.checkpoints.GetByID(ctx, checkpointID); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("%s/checkin?checkpoint_id=%d", s.baseURL, checkpointID)
	png, err := s.encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

func (s *qrCodeService) PublishCheckpointPNG(ctx context.Context, checkpointID, size int) (string, error) {
	if s.uploader == nil {
		return "", ErrUploaderNotConfigured
	}

	png, err := s.CheckpointPNG(ctx, checkpointID, size)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("qrcodes/checkpoint-%d.png", checkpointID)
	result, err := s.uploader.Upload(ctx, key, "image/png", bytes.NewReader(png))
	if err != nil {
		return "", fmt.Errorf("failed to upload qr code poster: %w", err)
	}
	return result.Location, nil
}
