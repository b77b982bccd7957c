package skills

import (
	"context"
	"errors"
	"fmt"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/pkg/validate"
)

const collection = "skills"

var (
	ErrNotFound   = errors.New("skill not found")
	ErrValidation = errors.New("validation error")
)

type Store interface {
	List(ctx context.Context) ([]model.Skill, error)
	GetByID(ctx context.Context, id string) (model.Skill, error)
	Create(ctx context.Context, input model.SkillInput) (model.Skill, error)
	Update(ctx context.Context, id string, input model.SkillInput) (model.Skill, error)
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

func (s *Service) List(ctx context.Context) ([]model.Skill, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (model.Skill, error) {
	if !validate.Required(id) {
		return model.Skill{}, ErrValidation
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input model.SkillInput) (model.Skill, error) {
	if err := validateInput(input); err != nil {
		return model.Skill{}, err
	}

	skill, err := s.store.Create(ctx, input)
	if err != nil {
		return model.Skill{}, fmt.Errorf("create skill: %w", err)
	}

	s.publish(ctx)
	return skill, nil
}

func (s *Service) Update(ctx context.Context, id string, input model.SkillInput) (model.Skill, error) {
	if !validate.Required(id) {
		return model.Skill{}, ErrValidation
	}
	if err := validateInput(input); err != nil {
		return model.Skill{}, err
	}

	skill, err := s.store.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Skill{}, ErrNotFound
		}
		return model.Skill{}, fmt.Errorf("update skill: %w", err)
	}

	s.publish(ctx)
	return skill, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validate.Required(id) {
		return ErrValidation
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete skill: %w", err)
	}

	s.publish(ctx)
	return nil
}

func (s *Service) publish(ctx context.Context) {
	if s.feed != nil {
		s.feed.Publish(ctx, collection)
	}
}

func validateInput(input model.SkillInput) error {
	if !validate.Required(input.Name) || !validate.Required(input.Category) {
		return ErrValidation
	}
	if input.Level < 0 || input.Level > 100 {
		return ErrValidation
	}
	if input.Position < 0 {
		return ErrValidation
	}
	return nil
}
