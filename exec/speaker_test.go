package exec_test

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for onEnd")
	}
}

func TestSpeaker_WritesTextAndVoice(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "spoken.txt")
	script := `printf '%s|' "$@" > "` + out + `"; cat >> "` + out + `"`
	s := exec.NewSpeaker(
		[]string{"sh", "-c", script, "sh"},
		exec.WithVoice(workflow.GenderFemale, "en+f3"),
	)

	done := make(chan struct{})
	require.NoError(t, s.Speak("Hello there", workflow.GenderFemale, func() { close(done) }))
	waitClosed(t, done)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "-v|en+f3|Hello there", string(got))
	assert.False(t, s.Speaking())
}

func TestSpeaker_UnknownVoiceOmitsFlag(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "args.txt")
	script := `printf '%s|' "$@" > "` + out + `"; cat > /dev/null`
	s := exec.NewSpeaker(
		[]string{"sh", "-c", script, "sh", "--rate", "150"},
		exec.WithVoice(workflow.GenderMale, "en+m3"),
		exec.WithVoiceFlag("--voice"),
	)

	done := make(chan struct{})
	require.NoError(t, s.Speak("hi", "", func() { close(done) }))
	waitClosed(t, done)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "--rate|150|", string(got))
}

func TestSpeaker_StopEndsUtterance(t *testing.T) {
	t.Parallel()

	s := exec.NewSpeaker([]string{"sh", "-c", "cat > /dev/null; sleep 30"})

	var ends atomic.Int32
	done := make(chan struct{})
	require.NoError(t, s.Speak("long text", workflow.GenderMale, func() {
		ends.Add(1)
		close(done)
	}))
	assert.True(t, s.Speaking())

	s.Stop()
	waitClosed(t, done)
	assert.False(t, s.Speaking())
	assert.Equal(t, int32(1), ends.Load())

	// Stopping again is a no-op.
	s.Stop()
	assert.Equal(t, int32(1), ends.Load())
}

func TestSpeaker_SpeakReplacesCurrent(t *testing.T) {
	t.Parallel()

	s := exec.NewSpeaker([]string{"sh", "-c", "cat > /dev/null; sleep 30"})

	first := make(chan struct{})
	require.NoError(t, s.Speak("one", "", func() { close(first) }))

	second := make(chan struct{})
	require.NoError(t, s.Speak("two", "", func() { close(second) }))
	waitClosed(t, first)
	assert.True(t, s.Speaking())

	s.Stop()
	waitClosed(t, second)
}

func TestSpeaker_ConcurrentSpeakLeavesOneUtterance(t *testing.T) {
	t.Parallel()

	s := exec.NewSpeaker([]string{"sh", "-c", "cat > /dev/null; sleep 30"})

	const n = 8
	var ends atomic.Int32
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Speak("text", "", func() { ends.Add(1) }))
		}()
	}
	wg.Wait()

	// Every utterance but the last was stopped by a later Speak.
	assert.Equal(t, int32(n-1), ends.Load())
	assert.True(t, s.Speaking())

	s.Stop()
	assert.Equal(t, int32(n), ends.Load())
	assert.False(t, s.Speaking())
}

func TestSpeaker_FailureCallsOnEnd(t *testing.T) {
	t.Parallel()

	t.Run("no command", func(t *testing.T) {
		t.Parallel()
		s := exec.NewSpeaker(nil)
		called := false
		err := s.Speak("hi", "", func() { called = true })
		assert.ErrorIs(t, err, exec.ErrNoCommand)
		assert.True(t, called)
	})

	t.Run("command not found", func(t *testing.T) {
		t.Parallel()
		s := exec.NewSpeaker([]string{"definitely-not-a-tts-binary-xyz"})
		called := false
		err := s.Speak("hi", "", func() { called = true })
		assert.Error(t, err)
		assert.True(t, called)
		assert.False(t, s.Speaking())
	})

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()
		s := exec.NewSpeaker([]string{"sh", "-c", "cat > /dev/null; echo 'no audio device' >&2; exit 3"})
		done := make(chan struct{})
		require.NoError(t, s.Speak("hi", "", func() { close(done) }))
		waitClosed(t, done)
	})
}
