package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lexora/lexora-server/idp"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/server/authflowrepo"
	"github.com/lexora/lexora-server/server/loginsession"
	"github.com/lexora/lexora-server/token/jwt"
	"github.com/lexora/lexora-server/users"
	"github.com/rs/zerolog/log"
)

// Config is the part of the application configuration the login flow reads.
type Config interface {
	GetStateTTL() time.Duration
	GetStateLength() int
	GetSelfSignupRoles() []string
	GetMaxSessionAge() time.Duration
}

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users    users.UserRepo    // Identities
	Flows    authflowrepo.Repo // Pending OAuth handshakes keyed by flow id
	Sessions loginsession.Repo // Authenticated sessions
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID        string         `json:"id"`
	Role      users.RoleType `json:"role"`
	SessionID string         `json:"-"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
}

// LoginStart is what the browser needs to begin a handshake.
type LoginStart struct {
	FlowID    string
	AuthURL   string
	ExpiresAt time.Time
}

// CallbackParams carries what the provider sent back, plus the flow cookie.
type CallbackParams struct {
	FlowID        string
	State         string
	Code          string
	ProviderError string
}

// LoginResult is a completed login.
type LoginResult struct {
	User    *users.User
	Created bool
	Session loginsession.Session
	Token   string
}

// Service runs the OAuth handshake and resolves session credentials.
type Service struct {
	repos     Repos
	provider  idp.IdentityProvider
	creator   *jwt.Creator
	inspector *jwt.Inspector
	config    Config
	nowTime   func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(
	repos Repos,
	provider idp.IdentityProvider,
	creator *jwt.Creator,
	inspector *jwt.Inspector,
	cfg Config,
	options ...ServiceOption,
) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Flows == nil {
		return nil, errors.New("[NewService] Flows repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if provider == nil {
		return nil, errors.New("[NewService] identity provider is required")
	}
	if creator == nil || inspector == nil {
		return nil, errors.New("[NewService] token creator and inspector are required")
	}
	if cfg == nil {
		return nil, errors.New("[NewService] config is required")
	}

	s := &Service{
		repos:     repos,
		provider:  provider,
		creator:   creator,
		inspector: inspector,
		config:    cfg,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// BeginLogin issues a fresh state for the requested role and stores it under
// a new flow id. An empty role means RoleUser.
func (s *Service) BeginLogin(ctx context.Context, requestedRole string) (*LoginStart, error) {
	role, err := users.ParseRole(requestedRole)
	if err != nil {
		return nil, &apperrors.Error{Kind: apperrors.KindValidation, Code: CodeInvalidRole, Message: "Invalid role", Err: err}
	}

	nonce, err := GenerateState(s.config.GetStateLength())
	if err != nil {
		return nil, apperrors.Internal("failed to generate state", err)
	}
	flowID, err := GenerateState(s.config.GetStateLength())
	if err != nil {
		return nil, apperrors.Internal("failed to generate flow id", err)
	}

	now := s.nowTime()
	composite := ComposeState(nonce, role)
	flowState := &authflowrepo.AuthFlowState{
		State:     composite,
		Role:      string(role),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.GetStateTTL()),
	}
	if err := s.repos.Flows.Upsert(ctx, flowID, flowState); err != nil {
		return nil, apperrors.Internal("failed to store oauth state", err)
	}

	return &LoginStart{
		FlowID:    flowID,
		AuthURL:   s.provider.AuthCodeURL(composite),
		ExpiresAt: flowState.ExpiresAt,
	}, nil
}

// CompleteLogin validates the callback and, on success, upserts the identity
// and opens a session. Whatever the outcome, the flow's state is spent.
func (s *Service) CompleteLogin(ctx context.Context, params CallbackParams) (*LoginResult, error) {
	if params.ProviderError != "" {
		s.discardFlow(ctx, params.FlowID)
		return nil, loginError(apperrors.KindAuthentication, CodeOAuthDenied,
			fmt.Errorf("provider returned error %q", params.ProviderError))
	}
	if params.Code == "" || params.State == "" {
		s.discardFlow(ctx, params.FlowID)
		return nil, loginError(apperrors.KindValidation, CodeMissingParams, errors.New("code and state are required"))
	}

	flowState, err := s.consumeState(ctx, params)
	if err != nil {
		log.Warn().Err(err).Msg("[Service CompleteLogin] rejected oauth callback state")
		return nil, apperrors.StateValidation(CodeInvalidState, err)
	}
	requestedRole, err := users.ParseRole(flowState.Role)
	if err != nil {
		return nil, apperrors.StateValidation(CodeInvalidState, err)
	}

	providerToken, err := s.provider.Exchange(ctx, params.Code)
	if err != nil {
		log.Err(err).Msg("[Service CompleteLogin] code exchange failed")
		return nil, apperrors.ProviderExchange(CodeOAuthFailed, err)
	}

	profile, err := s.provider.FetchProfile(ctx, providerToken)
	if err != nil {
		log.Err(err).Msg("[Service CompleteLogin] profile fetch failed")
		return nil, apperrors.ProfileFetch(CodeNoProfile, err)
	}
	if profile.Subject == "" || profile.Email == "" {
		return nil, apperrors.ProfileFetch(CodeNoProfile, errors.New("profile is missing subject or email"))
	}

	user, created, err := s.upsertIdentity(ctx, profile, requestedRole)
	if err != nil {
		return nil, err
	}

	session, signed, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Created: created, Session: session, Token: signed}, nil
}

// consumeState spends the flow's stored state and checks the returned one
// against it: the role part must name the stored role and the nonce part must
// match the issued nonce.
func (s *Service) consumeState(ctx context.Context, params CallbackParams) (*authflowrepo.AuthFlowState, error) {
	if params.FlowID == "" {
		return nil, apperrors.ErrStateNotFound
	}
	flowState, err := s.repos.Flows.Consume(ctx, params.FlowID)
	if err != nil {
		return nil, err
	}
	if flowState.Expired(s.nowTime()) {
		return nil, apperrors.ErrStateExpired
	}

	returnedNonce, returnedRole, err := ParseState(params.State)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStateMismatch, err)
	}
	issuedNonce, issuedRole, err := ParseState(flowState.State)
	if err != nil {
		return nil, fmt.Errorf("%w: stored state: %v", apperrors.ErrStateMismatch, err)
	}
	if returnedRole != issuedRole || string(issuedRole) != flowState.Role {
		return nil, apperrors.ErrStateMismatch
	}
	if !StatesEqual(issuedNonce, returnedNonce) {
		return nil, apperrors.ErrStateMismatch
	}
	return flowState, nil
}

func (s *Service) discardFlow(ctx context.Context, flowID string) {
	if flowID == "" {
		return
	}
	if err := s.repos.Flows.Delete(ctx, flowID); err != nil {
		log.Err(err).Msg("[Service discardFlow] failed to delete oauth flow")
	}
}

// upsertIdentity creates the identity on first login with the requested role
// and otherwise refreshes the provider-owned fields. Role is never changed here.
func (s *Service) upsertIdentity(ctx context.Context, profile *idp.Profile, requestedRole users.RoleType) (*users.User, bool, error) {
	now := s.nowTime()
	incoming := &users.User{
		ProviderID: profile.Subject,
		Email:      profile.Email,
		Name:       profile.Name,
		Picture:    profile.Picture,
	}

	existing, err := s.repos.Users.GetByProviderID(ctx, profile.Subject)
	switch {
	case err == nil:
		return s.refreshIdentity(ctx, existing, incoming, now)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, false, loginError(apperrors.KindInternal, CodeOAuthFailed, err)
	}

	if !s.selfSignupAllowed(requestedRole) {
		return nil, false, loginError(apperrors.KindAuthorization, CodeRoleNotAllowed,
			fmt.Errorf("role %q cannot be chosen at signup", requestedRole))
	}

	user := &users.User{
		ID:          uuid.New().String(),
		ProviderID:  incoming.ProviderID,
		Email:       incoming.Email,
		Name:        incoming.Name,
		Picture:     incoming.Picture,
		Role:        requestedRole,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: now,
	}
	err = s.repos.Users.Create(ctx, user)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		// Lost a race with a concurrent first login for the same subject.
		existing, err = s.repos.Users.GetByProviderID(ctx, profile.Subject)
		if err != nil {
			return nil, false, loginError(apperrors.KindInternal, CodeOAuthFailed, err)
		}
		return s.refreshIdentity(ctx, existing, incoming, now)
	}
	if err != nil {
		return nil, false, loginError(apperrors.KindInternal, CodeOAuthFailed, err)
	}
	return user, true, nil
}

func (s *Service) refreshIdentity(ctx context.Context, existing, incoming *users.User, now time.Time) (*users.User, bool, error) {
	existing.RefreshProfile(incoming, now)
	if err := s.repos.Users.Update(ctx, existing); err != nil {
		return nil, false, loginError(apperrors.KindInternal, CodeOAuthFailed, err)
	}
	return existing, false, nil
}

func (s *Service) selfSignupAllowed(role users.RoleType) bool {
	for _, allowed := range s.config.GetSelfSignupRoles() {
		if users.RoleType(allowed) == role {
			return true
		}
	}
	return false
}

func (s *Service) openSession(ctx context.Context, user *users.User) (loginsession.Session, string, error) {
	now := s.nowTime()
	session := loginsession.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Role:      string(user.Role),
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.GetMaxSessionAge()),
	}
	if err := s.repos.Sessions.Upsert(ctx, session); err != nil {
		return loginsession.Session{}, "", loginError(apperrors.KindInternal, CodeOAuthFailed, err)
	}

	signed, err := s.creator.CreateSessionToken(session.ID, session.UserID, session.Role, session.ExpiresAt)
	if err != nil {
		_ = s.repos.Sessions.Delete(ctx, session.ID)
		return loginsession.Session{}, "", loginError(apperrors.KindInternal, CodeOAuthFailed, err)
	}
	return session, signed, nil
}

// Authenticate resolves a session credential to an Identity. The returned
// error carries AUTH_REQUIRED, INVALID_TOKEN or SESSION_EXPIRED.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, apperrors.Authentication(CodeAuthRequired, "Authentication required")
	}

	claims, err := s.inspector.Inspect(rawToken)
	if errors.Is(err, apperrors.ErrTokenExpired) {
		return nil, apperrors.Authentication(CodeSessionExpired, "Session expired")
	}
	if err != nil {
		return nil, apperrors.Authentication(CodeInvalidToken, "Invalid token")
	}

	session, err := s.repos.Sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, apperrors.ErrSessionNotFound) {
		return nil, apperrors.Authentication(CodeSessionExpired, "Session expired")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load session", err)
	}
	if session.Expired(s.nowTime()) {
		return nil, apperrors.Authentication(CodeSessionExpired, "Session expired")
	}
	if session.UserID != claims.UserID {
		return nil, apperrors.Authentication(CodeInvalidToken, "Invalid token")
	}

	return &Identity{
		ID:        session.UserID,
		Role:      users.RoleType(session.Role),
		SessionID: session.ID,
		Email:     session.Email,
		Name:      session.Name,
	}, nil
}

// CurrentUser returns the stored identity behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, identity *Identity) (*users.User, error) {
	user, err := s.repos.Users.GetByID(ctx, identity.ID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}

// Logout destroys the session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repos.Sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Internal("failed to destroy session", err)
	}
	return nil
}
