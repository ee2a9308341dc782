package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"resource_hub/internal/domain/models"
	"resource_hub/internal/lib/logger/sl"
	"resource_hub/internal/repository"
	storage "resource_hub/internal/storage/filestorage"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 85
)

// ImageInput describes a source image to download and re-host.
type ImageInput struct {
	SourceURL        string
	Alt              string
	Title            string
	Description      string
	Width            int
	Height           int
	MimeType         string
	OriginalFilename string
	BlurDataURL      string
}

type ImageService struct {
	log         *slog.Logger
	repo        repository.ImageRepository
	fileStorage storage.FileStorage
	client      *http.Client
}

func NewImageService(log *slog.Logger, repo repository.ImageRepository, fileStorage storage.FileStorage) *ImageService {
	return &ImageService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// DownloadAndUpload fetches the source image, re-encodes it into owned
// storage and records an Image row. The returned id is the new featured
// image id for the resource being written.
func (s *ImageService) DownloadAndUpload(ctx context.Context, input ImageInput, resourceSlug string) (uuid.UUID, error) {
	const op = "image_service.DownloadAndUpload"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", resourceSlug),
	)

	log.Info("downloading featured image", slog.String("source", input.SourceURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.SourceURL, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid image url: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return uuid.Nil, fmt.Errorf("failed to download image: unexpected status %d", resp.StatusCode)
	}

	img, width, height, err := processImage(resp.Body)
	if err != nil {
		return uuid.Nil, err
	}

	filename := imageFilename(input, resourceSlug)
	relPath, _, err := s.fileStorage.Save(ctx, bytes.NewReader(img), "resources", filename)
	if err != nil {
		log.Error("failed to store image", sl.Err(err))
		return uuid.Nil, fmt.Errorf("failed to store image: %w", err)
	}

	id, err := s.repo.Create(ctx, models.Image{
		URL:              s.fileStorage.URLFor(relPath),
		SourceURL:        input.SourceURL,
		Alt:              input.Alt,
		Title:            input.Title,
		Description:      input.Description,
		Width:            width,
		Height:           height,
		MimeType:         "image/jpeg",
		OriginalFilename: input.OriginalFilename,
		BlurDataURL:      input.BlurDataURL,
	})
	if err != nil {
		_ = s.fileStorage.Delete(ctx, relPath)
		log.Error("failed to save image row", sl.Err(err))
		return uuid.Nil, fmt.Errorf("failed to save image: %w", err)
	}

	log.Info("featured image stored", slog.String("image_id", id.String()))
	return id, nil
}

// HandleFeaturedImageUpdate decides whether an incoming structured image
// payload replaces the resource's existing featured image. The payload is
// considered the same picture when its source URL matches the stored
// source URL; in that case only the metadata is refreshed and no
// replacement happens.
func (s *ImageService) HandleFeaturedImageUpdate(ctx context.Context, existingImageID *uuid.UUID, input ImageInput, resourceSlug string) (uuid.UUID, bool, error) {
	const op = "image_service.HandleFeaturedImageUpdate"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", resourceSlug),
	)

	if existingImageID != nil {
		existing, err := s.repo.GetByID(ctx, *existingImageID)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("failed to load existing image: %w", err)
		}

		if existing.SourceURL == input.SourceURL {
			log.Info("featured image unchanged, refreshing metadata")
			if err := s.repo.UpdateMetadata(ctx, existing.ID, input.Alt, input.Title, input.Description); err != nil {
				return uuid.Nil, false, fmt.Errorf("failed to refresh image metadata: %w", err)
			}
			return existing.ID, false, nil
		}
	}

	newID, err := s.DownloadAndUpload(ctx, input, resourceSlug)
	if err != nil {
		return uuid.Nil, false, err
	}

	return newID, true, nil
}

// Delete removes the image row and, best effort, its stored file.
func (s *ImageService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "image_service.Delete"

	log := s.log.With(
		slog.String("op", op),
		slog.String("image_id", id.String()),
	)

	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if relPath, ok := s.fileStorage.PathFromURL(img.URL); ok {
		if err := s.fileStorage.Delete(ctx, relPath); err != nil {
			log.Warn("failed to delete stored file", sl.Err(err))
		}
	}

	log.Info("image deleted")
	return nil
}

// processImage decodes, downscales to maxImageWidth if wider, and
// re-encodes as JPEG.
func processImage(src io.Reader) ([]byte, int, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), w, h, nil
}

func imageFilename(input ImageInput, resourceSlug string) string {
	base := input.OriginalFilename
	if base == "" {
		base = path.Base(input.SourceURL)
	}
	ext := path.Ext(base)
	base = strings.TrimSuffix(base, ext)
	if base == "" || base == "." || base == "/" {
		base = "featured"
	}
	return fmt.Sprintf("%s-%s-%d.jpg", resourceSlug, slugifyBase(base), time.Now().UnixNano())
}

func slugifyBase(base string) string {
	base = strings.ToLower(base)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
