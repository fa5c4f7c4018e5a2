package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

const minPasswordLength = 6

// SessionRevoker is the logout denylist (Redis), keyed by session id.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	Revoked(ctx context.Context, sessionID string) (bool, error)
}

// OwnedCounter counts the resources an artisan owns.
type OwnedCounter interface {
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
}

// AuthoredCounter counts the reviews a user has written.
type AuthoredCounter interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// FeaturedPicker chooses the product shown on a customer's dashboard.
type FeaturedPicker interface {
	Featured(ctx context.Context) (*domain.Product, error)
}

// Dashboard holds the sources Profile reads. Nil fields are skipped.
type Dashboard struct {
	Products OwnedCounter
	Stories  OwnedCounter
	Reviews  AuthoredCounter
	Featured FeaturedPicker
}

// sessionClaims is the session token payload: sub is the user id, jti the session id.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login, and session resolution.
type AuthService struct {
	users    ports.UserRepository
	dash     Dashboard
	revoker  SessionRevoker
	secret   []byte
	tokenTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the identity provider. revoker may be nil, in which case
// logout only clears the client's cookie.
func NewAuthService(
	users ports.UserRepository,
	dash Dashboard,
	revoker SessionRevoker,
	secret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		dash:     dash,
		revoker:  revoker,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, 0)),
		validation.Field(&in.Role, validation.Required, validation.In(string(domain.RoleArtisan), string(domain.RoleCustomer))),
	)
	if err != nil {
		return nil, fieldErrors(err)
	}
	role, _ := domain.ParseRole(in.Role)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("account registered")
	return created, nil
}

// Login checks the credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.EmailFormat),
		"password": validation.Validate(password, validation.Required, validation.Length(minPasswordLength, 0)),
	}.Filter()
	if err != nil {
		return nil, fieldErrors(err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: exp.Unix(), User: user}, nil
}

func (s *AuthService) issue(user *domain.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	claims := sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        newID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp, nil
}

// Logout revokes the session until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, id *domain.Identity) error {
	if id.Anonymous() {
		return domain.ErrUnauthenticated
	}
	ttl := id.ExpiresAt.Sub(s.now())
	if s.revoker == nil || id.SessionID == "" || ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, id.SessionID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Resolve turns a session token into an identity. Anything unusable resolves
// to nil: bad signature, expiry, malformed claims, unknown role, revocation.
func (s *AuthService) Resolve(ctx context.Context, token string) *domain.Identity {
	if token == "" {
		return nil
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok || claims.Subject == "" || claims.ID == "" {
		return nil
	}

	if s.revoker != nil {
		revoked, err := s.revoker.Revoked(ctx, claims.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("session_id", claims.ID).Msg("revocation check failed, accepting session")
		} else if revoked {
			return nil
		}
	}

	return &domain.Identity{
		UserID:    claims.Subject,
		Role:      role,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

// Profile returns the signed-in account with its dashboard counters: product
// and story counts for artisans, review count and a featured product for customers.
func (s *AuthService) Profile(ctx context.Context, id *domain.Identity) (*ports.Profile, error) {
	if id.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, id.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		// account removed after the token was issued
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	p := &ports.Profile{User: user}
	if user.Role.IsArtisan() {
		if s.dash.Products != nil {
			if p.ProductCount, err = s.dash.Products.CountBySeller(ctx, user.ID); err != nil {
				return nil, err
			}
		}
		if s.dash.Stories != nil {
			if p.StoryCount, err = s.dash.Stories.CountBySeller(ctx, user.ID); err != nil {
				return nil, err
			}
		}
		return p, nil
	}

	if s.dash.Reviews != nil {
		if p.ReviewCount, err = s.dash.Reviews.CountByUser(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	if s.dash.Featured != nil {
		featured, err := s.dash.Featured.Featured(ctx)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("featured product unavailable")
		default:
			p.Featured = featured
		}
	}
	return p, nil
}

// fieldErrors converts ozzo-validation errors into a *domain.ValidationError.
func fieldErrors(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	verr := domain.NewValidationError()
	for field, e := range errs {
		verr.Add(field, e.Error())
	}
	return verr
}
