// Package session keeps the live card forms of authenticated users. Each
// session owns one cardform.Session and is closed when its owner deletes it
// or after it has been idle for the configured time.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"cardpay/internal/models"
	"cardpay/internal/services/cardform"
	"cardpay/internal/services/messages"
	"cardpay/internal/services/tokenizer"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound = errors.New("card session not found")
	ErrTooManySessions = errors.New("too many open card sessions")
	ErrRegistryClosed  = errors.New("session registry closed")
)

const minSweepInterval = time.Second

// Preferences supplies the per-user settings a new session starts with.
type Preferences interface {
	Get(ctx context.Context, userID uint) (models.Preferences, error)
}

// CardLinker records the token of a succeeded submission.
type CardLinker interface {
	Link(userID uint, sub cardform.Submission) (*models.CreditCard, error)
}

// Metrics is what the registry reports to, on top of the per-form metrics.
type Metrics interface {
	cardform.MetricsCollector
	SessionOpened()
	SessionClosed(expired bool)
}

type Config struct {
	Form cardform.Config
	// IdleTTL closes sessions untouched for this long. Zero disables expiry.
	IdleTTL time.Duration
	// MaxPerUser caps open sessions per user. Zero means no cap.
	MaxPerUser int
}

type Deps struct {
	Tokenizer   tokenizer.Tokenizer
	Preferences Preferences
	Cards       CardLinker
	Metrics     Metrics
	Logger      *logrus.Entry
}

type entry struct {
	id       uuid.UUID
	owner    uint
	session  *cardform.Session
	lastSeen time.Time
}

type Registry struct {
	cfg  Config
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
	closed   bool
}

func NewRegistry(cfg Config, deps Deps) *Registry {
	if deps.Tokenizer == nil {
		panic("session: nil tokenizer")
	}
	if deps.Logger == nil {
		deps.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Registry{
		cfg:      cfg,
		deps:     deps,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*entry),
	}
}

// Open starts a new card session for userID, applying the user's locale and
// CVC visibility preferences.
func (r *Registry) Open(ctx context.Context, userID uint) (uuid.UUID, cardform.State, error) {
	prefs := models.DefaultPreferences()
	if r.deps.Preferences != nil {
		p, err := r.deps.Preferences.Get(ctx, userID)
		if err != nil {
			r.deps.Logger.WithError(err).WithField("user_id", userID).Warn("using default preferences")
		} else {
			prefs = p
		}
	}

	formCfg := r.cfg.Form
	formCfg.CvcVisible = formCfg.CvcVisible || prefs.CvcVisibleDefault

	id := uuid.New()
	log := r.deps.Logger.WithFields(logrus.Fields{"session_id": id, "user_id": userID})

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return uuid.Nil, cardform.State{}, ErrRegistryClosed
	}
	if r.cfg.MaxPerUser > 0 && r.countLocked(userID) >= r.cfg.MaxPerUser {
		r.mu.Unlock()
		return uuid.Nil, cardform.State{}, ErrTooManySessions
	}

	opts := cardform.Options{
		Tokenizer: r.deps.Tokenizer,
		Messages:  messages.ForLocale(prefs.Locale),
		Logger:    log,
	}
	if r.deps.Metrics != nil {
		opts.Metrics = r.deps.Metrics
	}
	s := cardform.NewSession(formCfg, opts)
	r.sessions[id] = &entry{id: id, owner: userID, session: s, lastSeen: r.now()}
	r.mu.Unlock()

	if r.deps.Metrics != nil {
		r.deps.Metrics.SessionOpened()
	}
	log.WithField("locale", prefs.Locale).Info("card session opened")

	st, err := s.State()
	return id, st, err
}

// Get returns the session with the given id if userID owns it. Sessions of other users are
// reported as not found.
func (r *Registry) Get(userID uint, id uuid.UUID) (*cardform.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.owner != userID {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// ResultHandled acknowledges the terminal result of a session. A succeeded
// result is linked to the user's cards before it is cleared; if linking fails
// the result is kept so the call can be retried. The returned card is nil
// unless a card was linked.
func (r *Registry) ResultHandled(userID uint, id uuid.UUID) (cardform.Submission, *models.CreditCard, error) {
	s, err := r.Get(userID, id)
	if err != nil {
		return cardform.Submission{}, nil, err
	}

	var card *models.CreditCard
	sub, _, err := s.ResultHandledWith(func(sub cardform.Submission) error {
		if sub.Status != cardform.StatusSucceeded || r.deps.Cards == nil {
			return nil
		}
		linked, err := r.deps.Cards.Link(userID, sub)
		if err != nil {
			return err
		}
		card = linked
		return nil
	})
	if err != nil {
		r.deps.Logger.WithError(err).WithFields(logrus.Fields{
			"session_id": id,
			"user_id":    userID,
		}).Warn("linking card failed, result kept")
		return sub, nil, err
	}
	return sub, card, nil
}

// Close ends a session owned by userID.
func (r *Registry) Close(userID uint, id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if !ok || e.owner != userID {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	r.closeEntry(e, false)
	return nil
}

// Sweep closes sessions idle for longer than IdleTTL and returns how many it
// closed. A session with a submission in flight is left alone.
func (r *Registry) Sweep() int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var stale []*entry
	for _, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e)
		}
	}
	r.mu.Unlock()

	closed := 0
	for _, e := range stale {
		if st, err := e.session.State(); err == nil && st.Processing {
			continue
		}

		r.mu.Lock()
		cur, ok := r.sessions[e.id]
		if !ok || cur != e || !e.lastSeen.Before(cutoff) {
			r.mu.Unlock()
			continue
		}
		delete(r.sessions, e.id)
		r.mu.Unlock()

		r.closeEntry(e, true)
		closed++
	}
	return closed
}

// Run sweeps idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.cfg.IdleTTL <= 0 {
		return
	}
	interval := r.cfg.IdleTTL / 4
	if interval < minSweepInterval {
		interval = minSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.deps.Logger.WithField("closed", n).Info("expired idle card sessions")
			}
		}
	}
}

// Shutdown closes every session and refuses new ones.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	all := make([]*entry, 0, len(r.sessions))
	for id, e := range r.sessions {
		all = append(all, e)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, e := range all {
		r.closeEntry(e, false)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) countLocked(userID uint) int {
	n := 0
	for _, e := range r.sessions {
		if e.owner == userID {
			n++
		}
	}
	return n
}

func (r *Registry) closeEntry(e *entry, expired bool) {
	e.session.Close()
	if r.deps.Metrics != nil {
		r.deps.Metrics.SessionClosed(expired)
	}
	r.deps.Logger.WithFields(logrus.Fields{
		"session_id": e.id,
		"user_id":    e.owner,
		"expired":    expired,
	}).Info("card session closed")
}
