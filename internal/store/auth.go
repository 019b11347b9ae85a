package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/dspetrov/trackdesk/internal/gateway"
	"github.com/dspetrov/trackdesk/internal/model"
)

// AuthState is the auth store's published state. Loading starts true:
// nothing authenticated may render until Initialize resolves.
type AuthState struct {
	Identity *model.Identity
	Profile  *model.Profile
	Loading  bool
	Error    string

	// epoch counts SetUser reconciliations. Async operations capture
	// it at dispatch and drop their completion write if it moved, so
	// a session-change notification always wins over in-flight work.
	epoch uint64
}

// Clone returns a snapshot with copied record pointers.
func (s AuthState) Clone() AuthState {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}

// AuthStore owns the session identity and its application profile.
type AuthStore struct {
	c   *container[AuthState]
	gw  gateway.Gateway
	log *zap.Logger
}

// NewAuthStore constructs the auth store around a gateway.
func NewAuthStore(gw gateway.Gateway, log *zap.Logger) *AuthStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthStore{
		c:   newContainer(AuthState{Loading: true}),
		gw:  gw,
		log: log,
	}
}

// State returns the current snapshot.
func (s *AuthStore) State() AuthState { return s.c.State() }

// Subscribe registers a listener for state changes.
func (s *AuthStore) Subscribe(fn func(AuthState)) (unsubscribe func()) {
	return s.c.Subscribe(fn)
}

// complete applies a completion write unless a SetUser reconciliation
// arrived after the operation was dispatched.
func (s *AuthStore) complete(start uint64, fn func(*AuthState)) {
	s.c.update(func(st *AuthState) bool {
		if st.epoch != start {
			s.log.Debug("auth completion dropped, session changed underneath")
			return false
		}
		fn(st)
		return true
	})
}

// Initialize restores an existing session, if any. It must run exactly
// once at application start; both branches resolve Loading to false.
// A session without a matching profile is not a failure: the profile
// stays nil.
func (s *AuthStore) Initialize(ctx context.Context) error {
	start := s.c.State().epoch
	s.c.set(func(st *AuthState) { st.Loading = true })

	ident, err := s.gw.Session(ctx)
	if err != nil {
		s.fail(start, "initialize", err)
		return err
	}
	if ident == nil {
		s.complete(start, func(st *AuthState) {
			st.Identity = nil
			st.Profile = nil
			st.Loading = false
			st.Error = ""
		})
		return nil
	}

	profile, err := s.gw.Profile(ctx, ident.ID)
	if err != nil {
		s.fail(start, "initialize", err)
		return err
	}
	s.complete(start, func(st *AuthState) {
		st.Identity = ident
		st.Profile = profile
		st.Loading = false
		st.Error = ""
	})
	return nil
}

// SignUp creates a remote identity, then its profile row, then
// re-fetches the profile. A profile-insert failure leaves an orphaned
// identity behind; that risk is documented and not remediated here.
func (s *AuthStore) SignUp(ctx context.Context, email, password, fullName string, role model.Role) error {
	start := s.c.State().epoch
	s.c.set(func(st *AuthState) {
		st.Loading = true
		st.Error = ""
	})

	ident, err := s.gw.SignUp(ctx, email, password)
	if err != nil {
		s.fail(start, "sign up", err)
		return err
	}
	if _, err := s.gw.InsertProfile(ctx, model.NewProfile{
		ID:       ident.ID,
		Email:    email,
		FullName: fullName,
		Role:     role,
	}); err != nil {
		s.fail(start, "sign up", err)
		return err
	}
	profile, err := s.gw.Profile(ctx, ident.ID)
	if err != nil {
		s.fail(start, "sign up", err)
		return err
	}
	s.complete(start, func(st *AuthState) {
		st.Identity = &ident
		st.Profile = profile
		st.Loading = false
	})
	return nil
}

// SignIn authenticates and loads the matching profile.
func (s *AuthStore) SignIn(ctx context.Context, email, password string) error {
	start := s.c.State().epoch
	s.c.set(func(st *AuthState) {
		st.Loading = true
		st.Error = ""
	})

	ident, err := s.gw.SignIn(ctx, email, password)
	if err != nil {
		s.fail(start, "sign in", err)
		return err
	}
	profile, err := s.gw.Profile(ctx, ident.ID)
	if err != nil {
		s.fail(start, "sign in", err)
		return err
	}
	s.complete(start, func(st *AuthState) {
		st.Identity = &ident
		st.Profile = profile
		st.Loading = false
	})
	return nil
}

// SignOut invalidates the remote session. Only a successful remote
// call clears local state; on failure local state is left alone and
// may diverge from reality.
func (s *AuthStore) SignOut(ctx context.Context) error {
	start := s.c.State().epoch
	if err := s.gw.SignOut(ctx); err != nil {
		s.fail(start, "sign out", err)
		return err
	}
	s.complete(start, func(st *AuthState) {
		st.Identity = nil
		st.Profile = nil
		st.Loading = false
	})
	return nil
}

// SetUser is the synchronous reconciliation entry point for the
// gateway's session-change notification. It overwrites whatever is
// stored and invalidates every in-flight auth operation.
func (s *AuthStore) SetUser(identity *model.Identity, profile *model.Profile) {
	s.c.set(func(st *AuthState) {
		st.epoch++
		st.Identity = identity
		st.Profile = profile
		st.Loading = false
	})
}

// ClearError clears the error message only.
func (s *AuthStore) ClearError() {
	s.c.set(func(st *AuthState) { st.Error = "" })
}

func (s *AuthStore) fail(start uint64, op string, err error) {
	s.log.Warn("auth operation failed", zap.String("op", op), zap.Error(err))
	s.complete(start, func(st *AuthState) {
		st.Loading = false
		st.Error = err.Error()
	})
}
