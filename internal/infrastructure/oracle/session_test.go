package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"TweetSentry/internal/domain"
)

type fakeInput struct {
	ops      []string
	prompt   string
	inputErr error
}

func (f *fakeInput) Click(button proto.InputMouseButton, count int) error {
	f.ops = append(f.ops, "click")
	return nil
}

func (f *fakeInput) SelectAllText() error {
	f.ops = append(f.ops, "select")
	return nil
}

func (f *fakeInput) Input(text string) error {
	f.ops = append(f.ops, "input")
	f.prompt = text
	return f.inputErr
}

func (f *fakeInput) Type(keys ...input.Key) error {
	f.ops = append(f.ops, "enter")
	return nil
}

func TestSubmitReplacesResidualTextBeforeTyping(t *testing.T) {
	t.Parallel()

	box := &fakeInput{}
	s := &Session{findInput: func() (inputSurface, error) { return box, nil }}

	if err := s.Submit(context.Background(), "judge this"); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	want := "click select input enter"
	if got := strings.Join(box.ops, " "); got != want {
		t.Fatalf("submit sequence = %q, want %q", got, want)
	}
	if box.prompt != "judge this" {
		t.Fatalf("prompt = %q", box.prompt)
	}
	if s.State() != domain.StateBusy {
		t.Fatalf("state = %v, want busy", s.State())
	}
}

func TestSubmitMissingSurfaceDisconnects(t *testing.T) {
	t.Parallel()

	s := &Session{findInput: func() (inputSurface, error) {
		return nil, errors.New("no textarea")
	}}

	if err := s.Submit(context.Background(), "judge this"); !errors.Is(err, domain.ErrSessionUnavailable) {
		t.Fatalf("err = %v, want ErrSessionUnavailable", err)
	}
	if s.State() != domain.StateDisconnected {
		t.Fatalf("state = %v, want disconnected", s.State())
	}
}

func TestSubmitInputFailureDisconnects(t *testing.T) {
	t.Parallel()

	box := &fakeInput{inputErr: errors.New("detached")}
	s := &Session{findInput: func() (inputSurface, error) { return box, nil }}

	if err := s.Submit(context.Background(), "judge this"); !errors.Is(err, domain.ErrSessionUnavailable) {
		t.Fatalf("err = %v, want ErrSessionUnavailable", err)
	}
	if s.State() != domain.StateDisconnected {
		t.Fatalf("state = %v, want disconnected", s.State())
	}
}
