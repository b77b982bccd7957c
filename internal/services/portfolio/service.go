package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/services/profiles"
)

type ProfileSource interface {
	Get(ctx context.Context) (model.Profile, error)
}

type ProjectSource interface {
	List(ctx context.Context) ([]model.Project, error)
}

type SkillSource interface {
	List(ctx context.Context) ([]model.Skill, error)
}

type ExperienceSource interface {
	List(ctx context.Context) ([]model.Experience, error)
}

type Cache interface {
	GetPortfolio(ctx context.Context) ([]byte, bool, error)
	SetPortfolio(ctx context.Context, data []byte, ttl time.Duration) error
}

// Service assembles the full portfolio for the public site. The aggregate is
// cached in Redis; writes invalidate it through the change feed, the TTL is
// only a backstop.
type Service struct {
	profiles    ProfileSource
	projects    ProjectSource
	skills      SkillSource
	experiences ExperienceSource
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewService(
	profileSource ProfileSource,
	projectSource ProjectSource,
	skillSource SkillSource,
	experienceSource ExperienceSource,
	cache Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		profiles:    profileSource,
		projects:    projectSource,
		skills:      skillSource,
		experiences: experienceSource,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func (s *Service) Get(ctx context.Context) (model.Portfolio, error) {
	if s.cache != nil {
		data, ok, err := s.cache.GetPortfolio(ctx)
		if err != nil {
			s.logger.Warn("read portfolio cache", zap.Error(err))
		} else if ok {
			var cached model.Portfolio
			if err := json.Unmarshal(data, &cached); err != nil {
				s.logger.Warn("decode portfolio cache", zap.Error(err))
			} else {
				return cached, nil
			}
		}
	}

	aggregate, err := s.load(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}

	if s.cache != nil {
		data, err := json.Marshal(aggregate)
		if err == nil {
			if err := s.cache.SetPortfolio(ctx, data, s.cacheTTL); err != nil {
				s.logger.Warn("write portfolio cache", zap.Error(err))
			}
		}
	}

	return aggregate, nil
}

func (s *Service) load(ctx context.Context) (model.Portfolio, error) {
	profile, err := s.profiles.Get(ctx)
	profilePtr := &profile
	if err != nil {
		if !errors.Is(err, profiles.ErrNotFound) {
			return model.Portfolio{}, fmt.Errorf("load profile: %w", err)
		}
		// A brand-new site has no profile yet; render everything else.
		profilePtr = nil
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("load projects: %w", err)
	}

	skills, err := s.skills.List(ctx)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("load skills: %w", err)
	}

	experiences, err := s.experiences.List(ctx)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("load experiences: %w", err)
	}

	return model.Portfolio{
		Profile:     profilePtr,
		Projects:    projects,
		Skills:      skills,
		Experiences: experiences,
	}, nil
}
