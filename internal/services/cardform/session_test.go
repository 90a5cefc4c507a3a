package cardform

import (
	"context"
	"sync"
	"testing"
	"time"

	"cardpay/internal/services/tokenizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(Config{MinExpiryYear: 2024}, Options{
		Tokenizer: tokenizer.NewTestTokenizer(),
		Logger:    quietLogger(),
	})
	t.Cleanup(s.Close)
	return s
}

func fillSession(t *testing.T, s *Session, number, expiry, cvc, name string) {
	t.Helper()
	for field, value := range map[Field]string{
		FieldCardNumber: number,
		FieldExpiry:     expiry,
		FieldCvc:        cvc,
		FieldHolderName: name,
	} {
		_, err := s.ChangeField(field, value)
		require.NoError(t, err)
	}
}

func waitTerminal(t *testing.T, s *Session) State {
	t.Helper()
	var st State
	require.Eventually(t, func() bool {
		var err error
		st, err = s.State()
		return err == nil && st.Submission.Status.Terminal()
	}, 2*time.Second, 5*time.Millisecond)
	return st
}

func TestSession_EndToEnd(t *testing.T) {
	s := newTestSession(t)
	fillSession(t, s, "4242424242424242", "12/30", "123", "Jane Doe")

	st, err := s.Submit()
	require.NoError(t, err)
	assert.NotEqual(t, StatusIdle, st.Submission.Status)

	st = waitTerminal(t, s)
	assert.Equal(t, StatusSucceeded, st.Submission.Status)
	assert.Contains(t, st.Submission.Token, "tok_visa")
	assert.Equal(t, "4242", st.Submission.Last4)

	sub, ok, err := s.ResultHandled()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, st.Submission.Token, sub.Token)

	_, ok, err = s.ResultHandled()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_DeclinedCard(t *testing.T) {
	s := newTestSession(t)
	fillSession(t, s, "4000000000000002", "12/30", "123", "Jane Doe")

	_, err := s.Submit()
	require.NoError(t, err)

	st := waitTerminal(t, s)
	assert.Equal(t, StatusFailed, st.Submission.Status)
	assert.Equal(t, ReasonDeclined, st.Submission.Reason)
	assert.Equal(t, "4000 0000 0000 0002", st.CardNumber.Value)
}

func TestSession_ConcurrentSubmitsTokenizeOnce(t *testing.T) {
	tok := &countingTokenizer{release: make(chan struct{})}
	s := NewSession(Config{MinExpiryYear: 2024}, Options{Tokenizer: tok, Logger: quietLogger()})
	defer s.Close()
	fillSession(t, s, "4242424242424242", "12/30", "123", "Jane Doe")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(tok.release)

	st := waitTerminal(t, s)
	assert.Equal(t, StatusSucceeded, st.Submission.Status)
	assert.Equal(t, 1, tok.Calls())
}

func TestSession_Subscribe(t *testing.T) {
	s := newTestSession(t)

	updates := make(chan State, 8)
	unsubscribe, err := s.Subscribe(func(st State) { updates <- st })
	require.NoError(t, err)

	_, err = s.ChangeField(FieldHolderName, "Jane")
	require.NoError(t, err)

	select {
	case st := <-updates:
		assert.Equal(t, "Jane", st.HolderName.Value)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	unsubscribe()
	_, err = s.ChangeField(FieldHolderName, "Janet")
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestSession_ClosedSessionRejectsCalls(t *testing.T) {
	s := NewSession(Config{}, Options{Tokenizer: tokenizer.NewTestTokenizer(), Logger: quietLogger()})
	s.Close()
	s.Close()

	_, err := s.ChangeField(FieldCvc, "123")
	assert.ErrorIs(t, err, ErrLoopStopped)
	_, _, err = s.ResultHandled()
	assert.ErrorIs(t, err, ErrLoopStopped)
}

func TestSession_UnknownFieldError(t *testing.T) {
	s := newTestSession(t)
	_, err := s.FocusLost(Field(9))
	assert.ErrorIs(t, err, ErrUnknownField)
}

type countingTokenizer struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (c *countingTokenizer) Tokenize(_ context.Context, card tokenizer.Card) (*tokenizer.Token, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	<-c.release
	return &tokenizer.Token{ID: "tok_once", Last4: card.LastFour()}, nil
}

func (c *countingTokenizer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
