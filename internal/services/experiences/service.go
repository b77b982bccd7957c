package experiences

import (
	"context"
	"errors"
	"fmt"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/pkg/validate"
)

const collection = "experiences"

var (
	ErrNotFound   = errors.New("experience not found")
	ErrValidation = errors.New("validation error")
)

type Store interface {
	List(ctx context.Context) ([]model.Experience, error)
	GetByID(ctx context.Context, id string) (model.Experience, error)
	Create(ctx context.Context, input model.ExperienceInput) (model.Experience, error)
	Update(ctx context.Context, id string, input model.ExperienceInput) (model.Experience, error)
	Delete(ctx context.Context, id string) error
}

type ChangePublisher interface {
	Publish(ctx context.Context, collection string)
}

type Service struct {
	store Store
	feed  ChangePublisher
}

func NewService(store Store, feed ChangePublisher) *Service {
	return &Service{store: store, feed: feed}
}

func (s *Service) List(ctx context.Context) ([]model.Experience, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (model.Experience, error) {
	if !validate.Required(id) {
		return model.Experience{}, ErrValidation
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input model.ExperienceInput) (model.Experience, error) {
	input, err := normalize(input)
	if err != nil {
		return model.Experience{}, err
	}

	experience, err := s.store.Create(ctx, input)
	if err != nil {
		return model.Experience{}, fmt.Errorf("create experience: %w", err)
	}

	s.publish(ctx)
	return experience, nil
}

func (s *Service) Update(ctx context.Context, id string, input model.ExperienceInput) (model.Experience, error) {
	if !validate.Required(id) {
		return model.Experience{}, ErrValidation
	}
	input, err := normalize(input)
	if err != nil {
		return model.Experience{}, err
	}

	experience, err := s.store.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Experience{}, ErrNotFound
		}
		return model.Experience{}, fmt.Errorf("update experience: %w", err)
	}

	s.publish(ctx)
	return experience, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validate.Required(id) {
		return ErrValidation
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete experience: %w", err)
	}

	s.publish(ctx)
	return nil
}

func (s *Service) publish(ctx context.Context) {
	if s.feed != nil {
		s.feed.Publish(ctx, collection)
	}
}

// normalize validates the input and clears the end date of a current
// position. Dates travel as YYYY-MM strings end to end.
func normalize(input model.ExperienceInput) (model.ExperienceInput, error) {
	if !validate.Required(input.Title) || !validate.Required(input.Company) {
		return model.ExperienceInput{}, ErrValidation
	}
	if !validate.YearMonth(input.StartDate) {
		return model.ExperienceInput{}, ErrValidation
	}
	if input.Current {
		input.EndDate = ""
	} else if input.EndDate != "" && !validate.YearMonth(input.EndDate) {
		return model.ExperienceInput{}, ErrValidation
	}
	if input.Position < 0 {
		return model.ExperienceInput{}, ErrValidation
	}
	return input, nil
}
