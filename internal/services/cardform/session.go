package cardform

const defaultLoopBuffer = 16

// Session pairs a Form with the Loop that owns it, so the form can be driven
// from any goroutine. Every call is executed on the loop in arrival order.
type Session struct {
	form *Form
	loop *Loop
}

// NewSession starts a loop and builds a form dispatched onto it. Any
// Dispatch in opts is replaced.
func NewSession(cfg Config, opts Options) *Session {
	loop := NewLoop(defaultLoopBuffer)
	opts.Dispatch = func(fn func()) { loop.Post(fn) }
	return &Session{
		form: NewForm(cfg, opts),
		loop: loop,
	}
}

func (s *Session) ChangeField(field Field, value string) (State, error) {
	return s.apply(func(f *Form) error { return f.ChangeField(field, value) })
}

func (s *Session) FocusLost(field Field) (State, error) {
	return s.apply(func(f *Form) error { return f.FocusLost(field) })
}

func (s *Session) ToggleCvcVisibility() (State, error) {
	return s.apply(func(f *Form) error {
		f.ToggleCvcVisibility()
		return nil
	})
}

// Submit dispatches a submission and returns the state right after it. A
// submit while processing is ignored and is not an error.
func (s *Session) Submit() (State, error) {
	return s.apply(func(f *Form) error {
		f.Submit()
		return nil
	})
}

// ResultHandled clears a terminal submission and returns it. ok is false when
// there was no terminal result to clear.
func (s *Session) ResultHandled() (sub Submission, ok bool, err error) {
	err = s.loop.Do(func() { sub, ok = s.form.ResultHandled() })
	return sub, ok, err
}

// ResultHandledWith runs accept on the loop with the terminal submission and
// clears it only if accept succeeds. Concurrent calls are serialized, so a
// result is accepted at most once.
func (s *Session) ResultHandledWith(accept func(Submission) error) (sub Submission, ok bool, err error) {
	if doErr := s.loop.Do(func() { sub, ok, err = s.form.ResultHandledWith(accept) }); doErr != nil {
		return Submission{}, false, doErr
	}
	return sub, ok, err
}

func (s *Session) State() (State, error) {
	return s.apply(func(*Form) error { return nil })
}

// Subscribe registers fn for state snapshots. fn runs on the session loop and
// must not call back into the session.
func (s *Session) Subscribe(fn func(State)) (func(), error) {
	var unsubscribe func()
	if err := s.loop.Do(func() { unsubscribe = s.form.Subscribe(fn) }); err != nil {
		return nil, err
	}
	return func() { s.loop.Post(unsubscribe) }, nil
}

// Close stops the loop. A tokenizer call still in flight completes but its
// result is discarded.
func (s *Session) Close() {
	s.loop.Stop()
}

func (s *Session) apply(op func(*Form) error) (State, error) {
	var (
		st    State
		opErr error
	)
	err := s.loop.Do(func() {
		opErr = op(s.form)
		st = s.form.State()
	})
	if err != nil {
		return State{}, err
	}
	return st, opErr
}
