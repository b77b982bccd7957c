package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m2dev/codefolio/internal/domain/model"
)

type fakeGenerator struct {
	reply        string
	err          error
	gotSystem    string
	gotHistory   []Message
	gotMessage   string
	generateRuns int
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt string, history []Message, message string) (string, error) {
	f.generateRuns++
	f.gotSystem = systemPrompt
	f.gotHistory = history
	f.gotMessage = message
	return f.reply, f.err
}

type fakeSource struct {
	portfolio model.Portfolio
}

func (f *fakeSource) Get(_ context.Context) (model.Portfolio, error) {
	return f.portfolio, nil
}

func testPortfolio() model.Portfolio {
	return model.Portfolio{
		Profile: &model.Profile{
			Name:  "Mohamed",
			Title: "Full-Stack Developer",
			Email: "m@example.com",
		},
		Skills: []model.Skill{
			{Name: "Go", Category: "Backend", Level: 90},
		},
		Projects: []model.Project{
			{Title: "CodeFolio", Description: "Portfolio site", Technologies: []string{"go", "react"}},
		},
		Experiences: []model.Experience{
			{Title: "Engineer", Company: "Acme", StartDate: "2023-04", Current: true},
		},
	}
}

func TestReplyBuildsSystemPromptFromPortfolio(t *testing.T) {
	gen := &fakeGenerator{reply: "Hi!"}
	svc := NewService(gen, &fakeSource{portfolio: testPortfolio()}, nil)

	reply, err := svc.Reply(context.Background(), nil, "who are you?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply != "Hi!" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	for _, want := range []string{"Mohamed", "Go", "CodeFolio", "Acme", "present"} {
		if !strings.Contains(gen.gotSystem, want) {
			t.Fatalf("system prompt missing %q:\n%s", want, gen.gotSystem)
		}
	}
	if gen.gotMessage != "who are you?" {
		t.Fatalf("unexpected message: %q", gen.gotMessage)
	}
}

func TestReplyFallsBackWhenUnconfigured(t *testing.T) {
	svc := NewService(nil, &fakeSource{}, nil)

	reply, err := svc.Reply(context.Background(), nil, "hello")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply != fallbackReply {
		t.Fatalf("unexpected fallback: %q", reply)
	}
}

func TestReplyRejectsEmptyAndOversizedMessages(t *testing.T) {
	svc := NewService(&fakeGenerator{reply: "x"}, &fakeSource{}, nil)

	if _, err := svc.Reply(context.Background(), nil, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank message, got %v", err)
	}
	if _, err := svc.Reply(context.Background(), nil, strings.Repeat("a", maxMessageLength+1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for oversized message, got %v", err)
	}
}

func TestReplyTrimsHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	svc := NewService(gen, &fakeSource{}, nil)

	history := make([]Message, maxHistoryMessages+10)
	for i := range history {
		history[i] = Message{Role: RoleUser, Content: "turn"}
	}

	if _, err := svc.Reply(context.Background(), history, "latest"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if len(gen.gotHistory) != maxHistoryMessages {
		t.Fatalf("history length = %d, want %d", len(gen.gotHistory), maxHistoryMessages)
	}
}

func TestReplyPropagatesGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewService(gen, &fakeSource{}, nil)

	_, err := svc.Reply(context.Background(), nil, "hello")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestBuildSystemPromptWithoutProfile(t *testing.T) {
	prompt := BuildSystemPrompt(model.Portfolio{
		Skills: []model.Skill{{Name: "Go", Category: "Backend", Level: 90}},
	})

	if !strings.Contains(prompt, "the site owner") {
		t.Fatalf("expected generic owner reference:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Go") {
		t.Fatalf("expected skills section:\n%s", prompt)
	}
}
