package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/png"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"

	"github.com/nfnt/resize"
)

var ErrClassifierUnavailable = errors.New("classifier service unavailable")

type ClassifierService interface {
	// Classify downsizes the image, forwards it to the inference
	// service, and records the result against the user.
	Classify(ctx context.Context, userEmail, fileName string, imageData io.Reader) (*models.ClassificationResult, error)
	History(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Classification, int64, error)
}

type classifierService struct {
	repo         interfaces.ClassificationRepository
	endpoint     string
	maxImageEdge int
	client       *http.Client
	logger       *logger.Logger
}

func NewClassifierService(
	repo interfaces.ClassificationRepository,
	endpoint string,
	timeout time.Duration,
	maxImageEdge int,
	logger *logger.Logger,
) ClassifierService {
	if maxImageEdge <= 0 {
		maxImageEdge = 1024
	}

	return &classifierService{
		repo:         repo,
		endpoint:     endpoint,
		maxImageEdge: maxImageEdge,
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

func (s *classifierService) Classify(ctx context.Context, userEmail, fileName string, imageData io.Reader) (*models.ClassificationResult, error) {
	payload, err := s.preparePayload(imageData)
	if err != nil {
		return nil, err
	}

	result, err := s.infer(ctx, fileName, payload)
	if err != nil {
		return nil, err
	}

	if s.repo != nil && userEmail != "" {
		record := &models.Classification{
			UserEmail: userEmail,
			Label:     result.Label,
			Score:     result.Score,
			FileName:  fileName,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			s.logger.WithError(err).Warn("Failed to record classification")
		}
	}

	return result, nil
}

func (s *classifierService) History(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Classification, int64, error) {
	return s.repo.ListByUser(ctx, userEmail, params)
}

// preparePayload decodes the upload and shrinks it so the inference
// service never receives multi-megabyte camera originals. Images that
// fail to decode are forwarded untouched and left for the model to
// reject.
func (s *classifierService) preparePayload(imageData io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(imageData, utils.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(raw)) > utils.MaxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", utils.MaxImageSize)
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return raw, nil
	}

	bounds := decoded.Bounds()
	if bounds.Dx() <= s.maxImageEdge && bounds.Dy() <= s.maxImageEdge {
		return raw, nil
	}

	resized := resize.Thumbnail(uint(s.maxImageEdge), uint(s.maxImageEdge), decoded, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return raw, nil
	}

	return buf.Bytes(), nil
}

func (s *classifierService) infer(ctx context.Context, fileName string, payload []byte) (*models.ClassificationResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if fileName == "" {
		fileName = "upload.jpg"
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrClassifierUnavailable, resp.StatusCode)
	}

	var result models.ClassificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if result.Label == "" {
		return nil, fmt.Errorf("classifier returned empty label")
	}

	return &result, nil
}
