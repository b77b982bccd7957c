package projects

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/services/media"
)

type fakeStore struct {
	projects  map[string]model.Project
	nextID    int
	createErr error
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: map[string]model.Project{}}
}

func (f *fakeStore) List(_ context.Context) ([]model.Project, error) {
	out := make([]model.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) Create(_ context.Context, input model.ProjectInput) (model.Project, error) {
	if f.createErr != nil {
		return model.Project{}, f.createErr
	}

	f.nextID++
	p := model.Project{
		ID:           fmt.Sprintf("p-%d", f.nextID),
		Title:        input.Title,
		Description:  input.Description,
		Technologies: input.Technologies,
		ImageURL:     input.ImageURL,
		ProjectURL:   input.ProjectURL,
		GithubURL:    input.GithubURL,
		Featured:     input.Featured,
		Position:     input.Position,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeStore) Update(_ context.Context, id string, input model.ProjectInput) (model.Project, error) {
	if f.updateErr != nil {
		return model.Project{}, f.updateErr
	}

	p, ok := f.projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	p.Title = input.Title
	p.Description = input.Description
	p.ImageURL = input.ImageURL
	p.UpdatedAt = time.Now().UTC()
	f.projects[id] = p
	return p, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

type fakeImages struct {
	uploadErr   error
	uploadCalls int
	deleted     []string
}

func (f *fakeImages) UploadImage(_ context.Context, folder string, _ media.Upload) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploadCalls++
	return fmt.Sprintf("https://s3.local/portfolio/%s/img-%d.jpg", folder, f.uploadCalls), nil
}

func (f *fakeImages) DeleteImage(_ context.Context, rawURL string) error {
	f.deleted = append(f.deleted, rawURL)
	return nil
}

type fakeFeed struct {
	published []string
}

func (f *fakeFeed) Publish(_ context.Context, collection string) {
	f.published = append(f.published, collection)
}

func validInput() model.ProjectInput {
	return model.ProjectInput{
		Title:        "Portfolio site",
		Description:  "Personal website",
		Technologies: []string{"go", "react"},
		Position:     1,
	}
}

func TestCreateWithImage(t *testing.T) {
	store := newFakeStore()
	images := &fakeImages{}
	feed := &fakeFeed{}
	svc := NewService(store, images, feed)

	project, err := svc.Create(context.Background(), validInput(), &media.Upload{
		FileName:    "shot.png",
		ContentType: "image/png",
		Data:        []byte{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if project.ImageURL == "" {
		t.Fatalf("expected image url on created project")
	}
	if len(feed.published) != 1 || feed.published[0] != "projects" {
		t.Fatalf("unexpected publish calls: %v", feed.published)
	}
}

func TestCreateUploadFailureAbortsWrite(t *testing.T) {
	store := newFakeStore()
	images := &fakeImages{uploadErr: media.ErrTooLarge}
	svc := NewService(store, images, &fakeFeed{})

	_, err := svc.Create(context.Background(), validInput(), &media.Upload{
		ContentType: "image/png",
		Data:        []byte{1},
	})
	if !errors.Is(err, media.ErrTooLarge) {
		t.Fatalf("expected upload error to propagate unchanged, got %v", err)
	}
	if len(store.projects) != 0 {
		t.Fatalf("expected no record after upload failure, got %d", len(store.projects))
	}
}

func TestCreateStoreFailureCleansUpUpload(t *testing.T) {
	store := newFakeStore()
	store.createErr = fmt.Errorf("db down")
	images := &fakeImages{}
	svc := NewService(store, images, &fakeFeed{})

	_, err := svc.Create(context.Background(), validInput(), &media.Upload{
		ContentType: "image/png",
		Data:        []byte{1},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(images.deleted) != 1 {
		t.Fatalf("expected compensating delete of uploaded object, got %d", len(images.deleted))
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeImages{}, &fakeFeed{})

	input := validInput()
	input.Title = "  "
	if _, err := svc.Create(context.Background(), input, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateReplacesOldImage(t *testing.T) {
	store := newFakeStore()
	images := &fakeImages{}
	svc := NewService(store, images, &fakeFeed{})

	input := validInput()
	input.ImageURL = "https://s3.local/portfolio/projects/old.jpg"
	created, err := store.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, validInput(), &media.Upload{
		ContentType: "image/png",
		Data:        []byte{1},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ImageURL == input.ImageURL {
		t.Fatalf("expected new image url")
	}
	if len(images.deleted) != 1 || images.deleted[0] != input.ImageURL {
		t.Fatalf("expected old image deleted, got %v", images.deleted)
	}
}

func TestUpdateMissingProject(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeImages{}, &fakeFeed{})

	_, err := svc.Update(context.Background(), "missing", validInput(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesImage(t *testing.T) {
	store := newFakeStore()
	images := &fakeImages{}
	feed := &fakeFeed{}
	svc := NewService(store, images, feed)

	input := validInput()
	input.ImageURL = "https://s3.local/portfolio/projects/old.jpg"
	created, err := store.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.projects) != 0 {
		t.Fatalf("record still present after delete")
	}
	if len(images.deleted) != 1 || images.deleted[0] != input.ImageURL {
		t.Fatalf("expected image cleanup, got %v", images.deleted)
	}
	if len(feed.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(feed.published))
	}
}
