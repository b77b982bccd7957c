package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/pkg/validate"
	"github.com/m2dev/codefolio/internal/services/media"
)

const collection = "projects"

var (
	ErrNotFound   = errors.New("project not found")
	ErrValidation = errors.New("validation error")
)

type Store interface {
	List(ctx context.Context) ([]model.Project, error)
	GetByID(ctx context.Context, id string) (model.Project, error)
	Create(ctx context.Context, input model.ProjectInput) (model.Project, error)
	Update(ctx context.Context, id string, input model.ProjectInput) (model.Project, error)
	Delete(ctx context.Context, id string) error
}

type ImageStore interface {
	UploadImage(ctx context.Context, folder string, upload media.Upload) (string, error)
	DeleteImage(ctx context.Context, rawURL string) error
}

type ChangePublisher interface {
	Publish(ctx context.Context, collection string)
}

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

func (s *Service) List(ctx context.Context) ([]model.Project, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (model.Project, error) {
	if !validate.Required(id) {
		return model.Project{}, ErrValidation
	}
	return s.store.GetByID(ctx, id)
}

// Create stores a new project. When an image is attached it is uploaded
// first: upload failures abort the create and leave no record behind.
func (s *Service) Create(ctx context.Context, input model.ProjectInput, image *media.Upload) (model.Project, error) {
	if err := validateInput(input); err != nil {
		return model.Project{}, err
	}

	uploadedURL := ""
	if image != nil {
		url, err := s.images.UploadImage(ctx, collection, *image)
		if err != nil {
			return model.Project{}, err
		}
		uploadedURL = url
		input.ImageURL = url
	}

	project, err := s.store.Create(ctx, input)
	if err != nil {
		if uploadedURL != "" {
			_ = s.images.DeleteImage(ctx, uploadedURL)
		}
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}

	s.publish(ctx)
	return project, nil
}

func (s *Service) Update(ctx context.Context, id string, input model.ProjectInput, image *media.Upload) (model.Project, error) {
	if !validate.Required(id) {
		return model.Project{}, ErrValidation
	}
	if err := validateInput(input); err != nil {
		return model.Project{}, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Project{}, err
	}

	uploadedURL := ""
	if image != nil {
		url, uploadErr := s.images.UploadImage(ctx, collection, *image)
		if uploadErr != nil {
			return model.Project{}, uploadErr
		}
		uploadedURL = url
		input.ImageURL = url
	}

	project, err := s.store.Update(ctx, id, input)
	if err != nil {
		if uploadedURL != "" {
			_ = s.images.DeleteImage(ctx, uploadedURL)
		}
		return model.Project{}, fmt.Errorf("update project: %w", err)
	}

	if uploadedURL != "" && existing.ImageURL != "" && existing.ImageURL != uploadedURL {
		_ = s.images.DeleteImage(ctx, existing.ImageURL)
	}

	s.publish(ctx)
	return project, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validate.Required(id) {
		return ErrValidation
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if existing.ImageURL != "" {
		_ = s.images.DeleteImage(ctx, existing.ImageURL)
	}

	s.publish(ctx)
	return nil
}

func (s *Service) publish(ctx context.Context) {
	if s.feed != nil {
		s.feed.Publish(ctx, collection)
	}
}

func validateInput(input model.ProjectInput) error {
	if !validate.Required(input.Title) || !validate.Required(input.Description) {
		return ErrValidation
	}
	if input.Position < 0 {
		return ErrValidation
	}
	return nil
}
