package experiences

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/m2dev/codefolio/internal/domain/model"
)

type fakeStore struct {
	experiences map[string]model.Experience
	nextID      int
	lastInput   model.ExperienceInput
}

func newFakeStore() *fakeStore {
	return &fakeStore{experiences: map[string]model.Experience{}}
}

func (f *fakeStore) List(_ context.Context) ([]model.Experience, error) {
	out := make([]model.Experience, 0, len(f.experiences))
	for _, e := range f.experiences {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (model.Experience, error) {
	e, ok := f.experiences[id]
	if !ok {
		return model.Experience{}, ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) Create(_ context.Context, input model.ExperienceInput) (model.Experience, error) {
	f.nextID++
	f.lastInput = input
	e := model.Experience{
		ID:        fmt.Sprintf("e-%d", f.nextID),
		Title:     input.Title,
		Company:   input.Company,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Current:   input.Current,
	}
	f.experiences[e.ID] = e
	return e, nil
}

func (f *fakeStore) Update(_ context.Context, id string, input model.ExperienceInput) (model.Experience, error) {
	e, ok := f.experiences[id]
	if !ok {
		return model.Experience{}, ErrNotFound
	}
	f.lastInput = input
	e.Title = input.Title
	e.EndDate = input.EndDate
	e.Current = input.Current
	f.experiences[id] = e
	return e, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.experiences[id]; !ok {
		return ErrNotFound
	}
	delete(f.experiences, id)
	return nil
}

type fakeFeed struct {
	published []string
}

func (f *fakeFeed) Publish(_ context.Context, collection string) {
	f.published = append(f.published, collection)
}

func TestCreateClearsEndDateForCurrentPosition(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeFeed{})

	exp, err := svc.Create(context.Background(), model.ExperienceInput{
		Title:     "Backend Engineer",
		Company:   "Acme",
		StartDate: "2023-04",
		EndDate:   "2024-01",
		Current:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if exp.EndDate != "" {
		t.Fatalf("current position kept an end date: %q", exp.EndDate)
	}
	if store.lastInput.EndDate != "" {
		t.Fatalf("end date reached the store: %q", store.lastInput.EndDate)
	}
}

func TestCreateRejectsBadDates(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeFeed{})

	cases := []model.ExperienceInput{
		{Title: "Dev", Company: "Acme", StartDate: "2023"},
		{Title: "Dev", Company: "Acme", StartDate: "04-2023"},
		{Title: "Dev", Company: "Acme", StartDate: "2023-04", EndDate: "soon"},
	}
	for i, input := range cases {
		if _, err := svc.Create(context.Background(), input); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestCreateRequiresTitleAndCompany(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeFeed{})

	_, err := svc.Create(context.Background(), model.ExperienceInput{
		Title:     "Dev",
		StartDate: "2023-04",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdatePublishesChange(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	svc := NewService(store, feed)

	exp, err := svc.Create(context.Background(), model.ExperienceInput{
		Title:     "Dev",
		Company:   "Acme",
		StartDate: "2023-04",
		Current:   true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = svc.Update(context.Background(), exp.ID, model.ExperienceInput{
		Title:     "Senior Dev",
		Company:   "Acme",
		StartDate: "2023-04",
		EndDate:   "2025-06",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(feed.published) != 2 || feed.published[1] != "experiences" {
		t.Fatalf("unexpected publish calls: %v", feed.published)
	}
}

func TestDeleteMissingExperience(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeFeed{})

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
