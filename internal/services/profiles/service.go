package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/pkg/validate"
	"github.com/m2dev/codefolio/internal/services/media"
)

const collection = "profile"

var (
	ErrNotFound   = errors.New("profile not found")
	ErrValidation = errors.New("validation error")
)

type Store interface {
	Get(ctx context.Context) (model.Profile, error)
	Upsert(ctx context.Context, input model.ProfileInput) (model.Profile, error)
}

type ImageStore interface {
	UploadImage(ctx context.Context, folder string, upload media.Upload) (string, error)
	DeleteImage(ctx context.Context, rawURL string) error
}

type ChangePublisher interface {
	Publish(ctx context.Context, collection string)
}

// Service manages the owner's profile. The profile is a singleton, so there
// is no create or delete, only get and upsert.
type Service struct {
	store  Store
	images ImageStore
	feed   ChangePublisher
}

func NewService(store Store, images ImageStore, feed ChangePublisher) *Service {
	return &Service{
		store:  store,
		images: images,
		feed:   feed,
	}
}

func (s *Service) Get(ctx context.Context) (model.Profile, error) {
	return s.store.Get(ctx)
}

// Update upserts the profile, optionally replacing the avatar. The avatar is
// uploaded before the write and upload failures abort the whole update.
func (s *Service) Update(ctx context.Context, input model.ProfileInput, avatar *media.Upload) (model.Profile, error) {
	if !validate.Required(input.Name) {
		return model.Profile{}, ErrValidation
	}

	existing, err := s.store.Get(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return model.Profile{}, err
	}

	uploadedURL := ""
	if avatar != nil {
		url, uploadErr := s.images.UploadImage(ctx, collection, *avatar)
		if uploadErr != nil {
			return model.Profile{}, uploadErr
		}
		uploadedURL = url
		input.AvatarURL = url
	}

	profile, err := s.store.Upsert(ctx, input)
	if err != nil {
		if uploadedURL != "" {
			_ = s.images.DeleteImage(ctx, uploadedURL)
		}
		return model.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}

	if uploadedURL != "" && existing.AvatarURL != "" && existing.AvatarURL != uploadedURL {
		_ = s.images.DeleteImage(ctx, existing.AvatarURL)
	}

	s.publish(ctx)
	return profile, nil
}

func (s *Service) publish(ctx context.Context) {
	if s.feed != nil {
		s.feed.Publish(ctx, collection)
	}
}
