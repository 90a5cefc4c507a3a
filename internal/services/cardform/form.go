package cardform

import (
	"context"
	"errors"
	"strings"
	"time"

	"cardpay/internal/services/messages"
	"cardpay/internal/services/tokenizer"

	"github.com/sirupsen/logrus"
)

// Dispatcher runs fn on the goroutine that owns a Form. Tokenizer results are
// delivered through it so that form state is never touched from elsewhere.
type Dispatcher func(fn func())

// Config holds the tunable parts of a card form.
type Config struct {
	// MinExpiryYear is the earliest accepted four digit expiry year.
	MinExpiryYear int
	// TokenizeTimeout bounds a single tokenizer call. Zero means no bound.
	TokenizeTimeout time.Duration
	// CvcVisible is the initial CVC masking state.
	CvcVisible bool
}

// Options carries the collaborators of a Form. Tokenizer and Dispatch are
// required.
type Options struct {
	Tokenizer tokenizer.Tokenizer
	Messages  messages.Lookup
	Metrics   MetricsCollector
	Logger    *logrus.Entry
	Dispatch  Dispatcher
}

var fieldErrorKeys = map[Field]string{
	FieldCardNumber: messages.KeyCardNumberInvalid,
	FieldExpiry:     messages.KeyExpiryInvalid,
	FieldCvc:        messages.KeyCvcInvalid,
	FieldHolderName: messages.KeyHolderNameInvalid,
}

// ErrorKey is the message key of the error shown for an invalid field.
func (f Field) ErrorKey() string {
	return fieldErrorKeys[f]
}

var errNoToken = errors.New("tokenizer returned no token")

// Form is the in-memory card entry form. It is not safe for concurrent use:
// every method must be called from the goroutine its Dispatcher runs on.
type Form struct {
	cfg       Config
	validator Validator
	tokenizer tokenizer.Tokenizer
	lookup    messages.Lookup
	metrics   MetricsCollector
	log       *logrus.Entry
	dispatch  Dispatcher

	number input
	expiry input
	cvc    input
	name   input

	cvcVisible bool
	formValid  bool
	submission Submission

	// attempt identifies the in-flight tokenizer call; stale results are dropped.
	attempt   uint64
	started   time.Time
	pendingMM int
	pendingYY int

	listeners    map[int]func(State)
	nextListener int
}

// NewForm builds an empty, untouched form. It panics without a Tokenizer or
// Dispatch.
func NewForm(cfg Config, opts Options) *Form {
	if opts.Tokenizer == nil {
		panic("cardform: nil tokenizer")
	}
	if opts.Dispatch == nil {
		panic("cardform: nil dispatcher")
	}
	if opts.Messages == nil {
		opts.Messages = messages.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NoopMetricsCollector{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	f := &Form{
		cfg:        cfg,
		validator:  NewValidator(cfg.MinExpiryYear),
		tokenizer:  opts.Tokenizer,
		lookup:     opts.Messages,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		dispatch:   opts.Dispatch,
		cvcVisible: cfg.CvcVisible,
		listeners:  make(map[int]func(State)),
	}
	f.refreshAll()
	return f
}

// ChangeField stores a new raw value for field, normalizing it to its display
// form. Edits are rejected while a submission is processing.
func (f *Form) ChangeField(field Field, raw string) error {
	in := f.input(field)
	if in == nil {
		return ErrUnknownField
	}
	if f.submission.Status == StatusProcessing {
		return ErrProcessing
	}

	in.value = Normalize(field, raw)
	f.refreshField(field)
	f.changed()
	return nil
}

// FocusLost latches field as touched and recomputes its visible error.
func (f *Form) FocusLost(field Field) error {
	in := f.input(field)
	if in == nil {
		return ErrUnknownField
	}
	in.touch.Latch()
	f.refreshField(field)
	f.changed()
	return nil
}

// ToggleCvcVisibility flips the CVC masking flag.
func (f *Form) ToggleCvcVisibility() {
	f.cvcVisible = !f.cvcVisible
	f.changed()
}

// Submit starts tokenization of the current form contents and returns
// immediately. It reports false, and does nothing, while a previous
// submission is still processing.
func (f *Form) Submit() bool {
	if f.submission.Status == StatusProcessing {
		f.metrics.RecordIgnoredSubmit()
		return false
	}

	f.attempt++
	f.started = time.Now()
	f.submission = Submission{Status: StatusProcessing}
	f.changed()

	month, year, err := ParseExpiry(f.expiry.value)
	if err != nil || !f.validateAll() {
		f.finish(f.attempt, nil, ErrInvalidData)
		return true
	}
	f.pendingMM, f.pendingYY = month, year

	card := tokenizer.Card{
		Number:     StripSpaces(f.number.value),
		ExpMonth:   month,
		ExpYear:    year,
		CVC:        f.cvc.value,
		HolderName: strings.TrimSpace(f.name.value),
	}
	go f.tokenize(f.attempt, card)
	return true
}

// ResultHandled clears a terminal submission back to Idle and returns it.
// The second return is false when there was nothing to clear.
func (f *Form) ResultHandled() (Submission, bool) {
	sub, ok, _ := f.ResultHandledWith(nil)
	return sub, ok
}

// ResultHandledWith passes the terminal submission to accept before clearing
// it. If accept fails the submission stays in place and the error is
// returned, so the result can be acknowledged again.
func (f *Form) ResultHandledWith(accept func(Submission) error) (Submission, bool, error) {
	if !f.submission.Status.Terminal() {
		return Submission{}, false, nil
	}
	prev := f.submission
	if accept != nil {
		if err := accept(prev); err != nil {
			return prev, false, err
		}
	}
	f.submission = Submission{Status: StatusIdle}
	f.changed()
	return prev, true, nil
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	st := State{
		CardNumber: f.fieldState(&f.number),
		Expiry:     f.fieldState(&f.expiry),
		Cvc:        f.fieldState(&f.cvc),
		HolderName: f.fieldState(&f.name),
		CvcVisible: f.cvcVisible,
		Brand:      CardBrand(f.number.value),
		FormValid:  f.formValid,
		Processing: f.submission.Status == StatusProcessing,
		Submission: f.submission,
	}
	st.CanSubmit = st.FormValid && f.submission.Status == StatusIdle
	return st
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned function removes it. Both run on the owning goroutine.
func (f *Form) Subscribe(fn func(State)) func() {
	id := f.nextListener
	f.nextListener++
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

func (f *Form) tokenize(attempt uint64, card tokenizer.Card) {
	ctx := context.Background()
	if f.cfg.TokenizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.TokenizeTimeout)
		defer cancel()
	}

	tok, err := f.tokenizer.Tokenize(ctx, card)
	if err == nil && tok == nil {
		err = errNoToken
	}
	f.dispatch(func() { f.finish(attempt, tok, err) })
}

// finish leaves Processing for the given attempt. Results for an attempt
// that is no longer processing are ignored, so Processing is left once.
func (f *Form) finish(attempt uint64, tok *tokenizer.Token, err error) {
	if attempt != f.attempt || f.submission.Status != StatusProcessing {
		return
	}
	elapsed := time.Since(f.started)

	if err != nil {
		reason := ClassifyError(err)
		f.submission = Submission{
			Status:  StatusFailed,
			Reason:  reason,
			Message: f.lookup.String(reason.MessageKey()),
		}
		f.log.WithFields(logrus.Fields{
			"reason":   reason,
			"last4":    lastFour(f.number.value),
			"duration": elapsed,
		}).WithError(err).Warn("card submission failed")
	} else {
		f.submission = Submission{
			Status:   StatusSucceeded,
			Token:    tok.ID,
			Brand:    tok.Brand,
			Last4:    tok.Last4,
			ExpMonth: f.pendingMM,
			ExpYear:  f.pendingYY,
		}
		f.log.WithFields(logrus.Fields{
			"brand":    tok.Brand,
			"last4":    tok.Last4,
			"duration": elapsed,
		}).Info("card tokenized")
	}

	f.metrics.RecordSubmission(f.submission.Status, f.submission.Reason, elapsed)
	f.changed()
}

func (f *Form) input(field Field) *input {
	switch field {
	case FieldCardNumber:
		return &f.number
	case FieldExpiry:
		return &f.expiry
	case FieldCvc:
		return &f.cvc
	case FieldHolderName:
		return &f.name
	default:
		return nil
	}
}

func (f *Form) refreshField(field Field) {
	in := f.input(field)
	in.refresh(f.validator.Valid(field, in.value), fieldErrorKeys[field])
	f.formValid = f.number.valid && f.expiry.valid && f.cvc.valid && f.name.valid
}

func (f *Form) refreshAll() {
	for field := range fieldErrorKeys {
		f.refreshField(field)
	}
}

// validateAll re-runs every validator on the current values rather than
// trusting the cached flags.
func (f *Form) validateAll() bool {
	return IsValidCardNumber(f.number.value) &&
		f.validator.IsValidExpiry(f.expiry.value) &&
		IsValidCvc(f.cvc.value) &&
		IsValidHolderName(f.name.value)
}

func (f *Form) fieldState(in *input) FieldState {
	fs := FieldState{
		Value:   in.value,
		Valid:   in.valid,
		Touched: in.touch.IsTouched(),
	}
	if in.errorKey != "" {
		fs.Error = f.lookup.String(in.errorKey)
	}
	return fs
}

func (f *Form) changed() {
	if len(f.listeners) == 0 {
		return
	}
	st := f.State()
	for _, fn := range f.listeners {
		fn(st)
	}
}

// Normalize applies the display formatting of field to raw input.
func Normalize(field Field, raw string) string {
	switch field {
	case FieldCardNumber:
		return FormatCardNumber(raw)
	case FieldExpiry:
		return FormatExpiry(raw)
	case FieldCvc:
		return sanitizeCvc(raw)
	default:
		return raw
	}
}

func lastFour(display string) string {
	number := StripSpaces(display)
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}
