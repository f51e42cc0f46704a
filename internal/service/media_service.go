package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/repository"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
	"github.com/nabaa/newsroom/pkg/storage"
	"gorm.io/gorm"
)

// MaxImageSize is the upload limit for images
const MaxImageSize = 5 << 20

// MediaKeyPrefix is the storage prefix for article images
const MediaKeyPrefix = "articles"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadInput is one uploaded file
type UploadInput struct {
	Filename string
	Size     int64
	Body     io.Reader
	Alt      *string
	Caption  *string
}

// MediaService stores article images
type MediaService interface {
	Upload(ctx context.Context, actor *domain.Actor, in *UploadInput) (*domain.Media, error)
	List(ctx context.Context, actor *domain.Actor, page, perPage int) ([]*domain.Media, *common.Meta, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
}

type mediaService struct {
	repo  repository.MediaRepository
	store storage.Store
	now   func() time.Time
}

// NewMediaService creates a new MediaService
func NewMediaService(repo repository.MediaRepository, store storage.Store) MediaService {
	return &mediaService{repo: repo, store: store, now: time.Now}
}

// Upload accepts jpeg, png, gif and webp images up to MaxImageSize.
// The type is sniffed from the content, not trusted from the client.
func (s *mediaService) Upload(ctx context.Context, actor *domain.Actor, in *UploadInput) (*domain.Media, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	if in == nil || in.Body == nil {
		return nil, common.ErrInvalidInput
	}
	if in.Size > MaxImageSize {
		return nil, common.ErrFileTooLarge
	}

	reader := bufio.NewReaderSize(in.Body, 512)
	head, err := reader.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	contentType := http.DetectContentType(head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, common.ErrNotImage
	}

	filename := path.Base(strings.ReplaceAll(in.Filename, "\\", "/"))
	if path.Ext(filename) == "" {
		filename += ext
	}
	now := s.now()
	key := storage.GenerateKey(MediaKeyPrefix, filename, now)

	obj, err := s.store.Put(ctx, key, io.LimitReader(reader, MaxImageSize+1), contentType, in.Size)
	if err != nil {
		return nil, err
	}
	if obj.Size > MaxImageSize {
		_ = s.store.Delete(ctx, obj.Key)
		return nil, common.ErrFileTooLarge
	}

	media := &domain.Media{
		ID:         uuid.New().String(),
		Filename:   filename,
		Key:        obj.Key,
		URL:        obj.URL,
		MimeType:   contentType,
		Size:       obj.Size,
		UploaderID: actor.ID,
		Alt:        in.Alt,
		Caption:    in.Caption,
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, media); err != nil {
		_ = s.store.Delete(ctx, obj.Key)
		return nil, err
	}
	return media, nil
}

func (s *mediaService) List(ctx context.Context, actor *domain.Actor, page, perPage int) ([]*domain.Media, *common.Meta, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	return items, common.NewMeta(page, perPage, total), nil
}

// Delete is allowed for the uploader and for editors
func (s *mediaService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return err
	}
	media, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return common.ErrMediaNotFound
	}
	if media.UploaderID != actor.ID && !actor.Role.AtLeast(domain.RoleEditor) {
		return common.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrMediaNotFound
		}
		return err
	}
	if media.Key != "" {
		if err := s.store.Delete(ctx, media.Key); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", media.Key).Msg("failed to delete stored media")
		}
	}
	return nil
}
