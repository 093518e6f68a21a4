// Package dream orchestrates the canvas: it resolves the caller's session,
// applies one parsed instruction under the cooldown rules, and refreshes
// the channel's video artifact.
package dream

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/MilchZocker/UCC-DreamPacket/internal/canvas"
	"github.com/MilchZocker/UCC-DreamPacket/internal/cooldown"
	"github.com/MilchZocker/UCC-DreamPacket/internal/instruction"
	"github.com/MilchZocker/UCC-DreamPacket/internal/models"
	"github.com/MilchZocker/UCC-DreamPacket/internal/sentence"
	"github.com/MilchZocker/UCC-DreamPacket/internal/session"
)

// Generator produces an image from a prompt and returns its stored path.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Status classifies what an instruction did. The HTTP surface degrades all
// of them to "serve the current or default artifact", but the distinction
// keeps the behavior observable without parsing video bytes.
type Status int

const (
	// StatusOK means state changed and the artifact was refreshed.
	StatusOK Status = iota
	// StatusNoop covers invalid instructions and bare fetches.
	StatusNoop
	// StatusRateLimited means the cooldown or duplicate suppression
	// dropped the instruction.
	StatusRateLimited
	// StatusUpstreamFailure means the generation call did not yield a
	// usable image; nothing was persisted.
	StatusUpstreamFailure
	// StatusNotFound means a requested stored image does not exist.
	StatusNotFound
)

// Result carries the outcome and the artifact the caller should receive.
type Result struct {
	Status    Status
	VideoPath string
}

// Service ties the session store, cooldown gates, renderer, video library,
// and generation client together, one call per incoming instruction.
type Service struct {
	store     session.Store
	gate      cooldown.Gate
	inputs    *cooldown.Tracker
	renderer  *canvas.Renderer
	library   *canvas.Library
	generator Generator

	now func() time.Time
}

// NewService wires the orchestrator. The duplicate-input tracker shares the
// generation gate's interval.
func NewService(store session.Store, gate cooldown.Gate, renderer *canvas.Renderer, library *canvas.Library, generator Generator) *Service {
	return &Service{
		store:     store,
		gate:      gate,
		inputs:    cooldown.NewTracker(gate, 0),
		renderer:  renderer,
		library:   library,
		generator: generator,
		now:       time.Now,
	}
}

// DefaultVideo is the process-wide fallback artifact path, served when a
// resolved artifact cannot be read.
func (s *Service) DefaultVideo() string {
	return s.library.DefaultVideoPath()
}

// Execute parses raw and runs the resulting command for the client. The
// returned Result always names a servable artifact, even when err is
// non-nil; callers log the error and serve the artifact regardless.
func (s *Service) Execute(ctx context.Context, clientKey, raw string) (Result, error) {
	sess, err := s.store.Get(ctx, clientKey)
	if err != nil {
		return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, err
	}

	cmd := instruction.Parse(raw)
	switch cmd.Kind {
	case instruction.Write:
		return s.handleWrite(ctx, clientKey, sess, cmd.Letter)
	case instruction.Generate:
		return s.handleGenerate(ctx, clientKey, sess)
	case instruction.SetChannel:
		return s.handleSetChannel(ctx, clientKey, sess, cmd.Channel)
	}
	return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, nil
}

// CurrentVideo resolves the caller's channel artifact without mutating
// anything; this backs the bare fetch endpoint.
func (s *Service) CurrentVideo(ctx context.Context, clientKey string) (Result, error) {
	sess, err := s.store.Get(ctx, clientKey)
	return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, err
}

// CompositeImage encodes an already-stored image into the caller's channel
// artifact, bypassing the sentence and cooldown logic entirely.
func (s *Service) CompositeImage(ctx context.Context, clientKey, name string) (Result, error) {
	sess, err := s.store.Get(ctx, clientKey)
	if err != nil {
		return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, err
	}

	path, err := s.library.ImagePath(name)
	if err != nil {
		if errors.Is(err, canvas.ErrImageNotFound) {
			return Result{Status: StatusNotFound, VideoPath: s.library.Resolve(sess.Channel)}, nil
		}
		return Result{Status: StatusNotFound, VideoPath: s.library.Resolve(sess.Channel)}, err
	}
	img, err := canvas.DecodeImageFile(path)
	if err != nil {
		return Result{Status: StatusNotFound, VideoPath: s.library.Resolve(sess.Channel)}, err
	}
	if err := s.library.Composite(s.renderer.Fit(img), sess.Channel); err != nil {
		return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, err
	}
	return Result{Status: StatusOK, VideoPath: s.library.Resolve(sess.Channel)}, nil
}

func (s *Service) handleWrite(ctx context.Context, clientKey string, sess models.Session, letter byte) (Result, error) {
	now := s.now()
	if s.inputs.Repeated(clientKey, letter, now) {
		return Result{Status: StatusRateLimited, VideoPath: s.library.Resolve(sess.Channel)}, nil
	}

	sess.Sentence = sentence.Apply(sess.Sentence, letter)
	sess.LastUpdate = now
	if err := s.store.Put(ctx, clientKey, sess); err != nil {
		return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, err
	}

	frame := s.renderer.RenderSentence(sess.Sentence)
	if err := s.library.Composite(frame, sess.Channel); err != nil {
		return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, err
	}
	return Result{Status: StatusOK, VideoPath: s.library.Resolve(sess.Channel)}, nil
}

func (s *Service) handleGenerate(ctx context.Context, clientKey string, sess models.Session) (Result, error) {
	if !s.gate.Allowed(sess.LastUpdate, s.now()) {
		return Result{Status: StatusRateLimited, VideoPath: s.library.Resolve(sess.Channel)}, nil
	}

	imagePath, err := s.generator.Generate(ctx, sess.Sentence)
	if err != nil {
		log.Printf("generation for %s failed: %v", clientKey, err)
		return Result{Status: StatusUpstreamFailure, VideoPath: s.library.Resolve(sess.Channel)}, nil
	}
	img, err := canvas.DecodeImageFile(imagePath)
	if err != nil {
		log.Printf("generated image unreadable: %v", err)
		return Result{Status: StatusUpstreamFailure, VideoPath: s.library.Resolve(sess.Channel)}, nil
	}

	if err := s.library.Composite(s.renderer.Fit(img), sess.Channel); err != nil {
		return Result{Status: StatusUpstreamFailure, VideoPath: s.library.Resolve(sess.Channel)}, err
	}
	sess.LastUpdate = s.now()
	if err := s.store.Put(ctx, clientKey, sess); err != nil {
		return Result{Status: StatusOK, VideoPath: s.library.Resolve(sess.Channel)}, err
	}
	return Result{Status: StatusOK, VideoPath: s.library.Resolve(sess.Channel)}, nil
}

func (s *Service) handleSetChannel(ctx context.Context, clientKey string, sess models.Session, channel int) (Result, error) {
	sess.Channel = &channel
	if err := s.store.Put(ctx, clientKey, sess); err != nil {
		return Result{Status: StatusNoop, VideoPath: s.library.Resolve(sess.Channel)}, err
	}
	return Result{Status: StatusOK, VideoPath: s.library.Resolve(sess.Channel)}, nil
}
