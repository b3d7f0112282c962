package exec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	osexec "os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/fwojciec/workflow"
)

// Interface compliance check.
var _ workflow.Speaker = (*Speaker)(nil)

// ErrNoCommand is returned by Speak when no speech command is configured.
var ErrNoCommand = errors.New("exec: no speech command configured")

const stderrBufSize = 4 * 1024

// DefaultCommand reads text from stdin and speaks it.
var DefaultCommand = []string{"espeak-ng", "--stdin"}

// Speaker runs a text-to-speech command, one utterance at a time. Text is
// written to the command's stdin. Starting a new utterance stops the
// current one.
type Speaker struct {
	command   []string
	voiceFlag string
	voices    map[workflow.Gender]string
	logger    *slog.Logger

	// speakMu serializes Speak so stopping the old utterance and
	// installing the new one happen as one step.
	speakMu sync.Mutex

	mu      sync.Mutex
	current *utterance
}

type utterance struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a [Speaker].
type Option func(*Speaker)

// WithVoice sets the voice name passed for a gender.
func WithVoice(g workflow.Gender, voice string) Option {
	return func(s *Speaker) {
		if voice != "" {
			s.voices[g] = voice
		}
	}
}

// WithVoiceFlag sets the flag that precedes the voice name. Default is "-v".
func WithVoiceFlag(flag string) Option {
	return func(s *Speaker) { s.voiceFlag = flag }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Speaker) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpeaker returns a Speaker running command. An empty command yields a
// Speaker whose Speak calls fail with [ErrNoCommand].
func NewSpeaker(command []string, opts ...Option) *Speaker {
	s := &Speaker{
		command:   command,
		voiceFlag: "-v",
		voices:    make(map[workflow.Gender]string),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Speak stops any current utterance and starts speaking text. onEnd is
// called exactly once when the utterance finishes, fails, or is stopped.
// Failures are logged and reported as an immediate end of speech. Concurrent
// calls are serialized; onEnd must not call Speak.
func (s *Speaker) Speak(text string, voice workflow.Gender, onEnd func()) error {
	s.speakMu.Lock()
	defer s.speakMu.Unlock()
	s.Stop()

	var once sync.Once
	end := func() {
		if onEnd != nil {
			once.Do(onEnd)
		}
	}

	if len(s.command) == 0 {
		s.logger.Warn("speech unavailable", "error", ErrNoCommand)
		end()
		return ErrNoCommand
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := osexec.CommandContext(ctx, s.command[0], s.args(voice)...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.Stdin = strings.NewReader(text)
	stderr := newTailBuffer(stderrBufSize)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		cancel()
		err = fmt.Errorf("exec: start %s: %w", s.command[0], err)
		s.logger.Warn("speech failed", "error", err)
		end()
		return err
	}

	u := &utterance{cancel: cancel, done: make(chan struct{})}
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	go func() {
		defer close(u.done)
		defer end()
		err := cmd.Wait()
		stopped := ctx.Err() != nil
		cancel()

		s.mu.Lock()
		if s.current == u {
			s.current = nil
		}
		s.mu.Unlock()

		if err != nil && !stopped {
			msg := tailLines(sanitize(stderr.String()), maxErrLines)
			s.logger.Warn("speech failed", "command", s.command[0], "error", err, "stderr", msg)
		}
	}()
	return nil
}

// Stop cancels the current utterance, if any, and waits for it to exit.
func (s *Speaker) Stop() {
	s.mu.Lock()
	u := s.current
	s.current = nil
	s.mu.Unlock()
	if u == nil {
		return
	}
	u.cancel()
	<-u.done
}

// Speaking reports whether an utterance is in progress.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *Speaker) args(voice workflow.Gender) []string {
	args := append([]string(nil), s.command[1:]...)
	if name, ok := s.voices[voice]; ok && s.voiceFlag != "" {
		args = append(args, s.voiceFlag, name)
	}
	return args
}
