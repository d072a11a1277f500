package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUnknownChallenge  = errors.New("unknown challenge")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrChallengeMismatch = errors.New("challenge alg mismatch")
	ErrUnknownKey        = errors.New("key is not registered")
	ErrAccountBanned     = errors.New("account is banned")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnsupportedAlg    = errors.New("unsupported alg")
)

type Service struct {
	store        store.Store
	secret       []byte
	tokenTTL     time.Duration
	challengeTTL time.Duration
	now          func() time.Time
}

// Verified is the caller behind a valid access token.
type Verified struct {
	AccountID int64
	KeyID     int64
	JTI       string
	ExpiresAt time.Time
}

// Issued is an access token handed to a client after a signed challenge.
type Issued struct {
	AccessToken string
	Token       model.Token
	Account     model.Account
}

type claims struct {
	KeyID int64 `json:"kid"`
	jwt.RegisteredClaims
}

func NewService(store store.Store, secret string, tokenTTL, challengeTTL time.Duration) *Service {
	return &Service{
		store:        store,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		challengeTTL: challengeTTL,
		now:          time.Now,
	}
}

func (s *Service) CreateChallenge(ctx context.Context, alg string) (model.Challenge, error) {
	if !SupportedAlg(alg) {
		return model.Challenge{}, fmt.Errorf("%w: %s", ErrUnsupportedAlg, alg)
	}
	challenge, err := randomToken(32)
	if err != nil {
		return model.Challenge{}, err
	}
	c := model.Challenge{
		Challenge: challenge,
		Alg:       alg,
		ExpiresAt: s.now().Add(s.challengeTTL),
	}
	if err := s.store.CreateChallenge(ctx, c); err != nil {
		return model.Challenge{}, err
	}
	return c, nil
}

// consume redeems a challenge and checks the signature over it.
func (s *Service) consume(ctx context.Context, alg, publicKey, challenge, signature string) error {
	c, err := s.store.ConsumeChallenge(ctx, challenge)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrUnknownChallenge, err)
		}
		return err
	}
	if s.now().After(c.ExpiresAt) {
		return ErrChallengeExpired
	}
	if c.Alg != alg {
		return ErrChallengeMismatch
	}
	if err := VerifySignature(alg, publicKey, challenge, signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// IsCredentialError reports whether err means the caller failed to prove
// ownership of a key, as opposed to an infrastructure failure.
func IsCredentialError(err error) bool {
	for _, target := range []error{
		ErrUnknownChallenge, ErrInvalidSignature, ErrChallengeExpired, ErrChallengeMismatch,
		ErrUnknownKey, ErrInvalidToken,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type RegisterInput struct {
	DisplayName string
	Email       string
	Location    string
	Public      bool
	Alg         string
	PublicKey   string
	Challenge   string
	Signature   string
}

// Register creates an account owned by the key that signed the challenge.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.Account, int64, error) {
	if err := s.consume(ctx, in.Alg, in.PublicKey, in.Challenge, in.Signature); err != nil {
		return model.Account{}, 0, err
	}
	account := model.Account{
		DisplayName: in.DisplayName,
		Email:       in.Email,
		Location:    in.Location,
		Public:      in.Public,
		Role:        model.RoleUser,
		CreatedAt:   s.now(),
	}
	key := model.AccountKey{Alg: in.Alg, PublicKey: in.PublicKey, CreatedAt: s.now()}
	accountID, keyID, err := s.store.CreateAccount(ctx, &account, &key)
	if err != nil {
		return model.Account{}, 0, err
	}
	account.ID = accountID
	return account, keyID, nil
}

// VerifyAndCreateToken exchanges a signed challenge for a JWT. Only registered keys
// of accounts that are not banned get a token.
func (s *Service) VerifyAndCreateToken(ctx context.Context, alg, publicKey, challenge, signature string) (Issued, error) {
	if err := s.consume(ctx, alg, publicKey, challenge, signature); err != nil {
		return Issued{}, err
	}

	key, account, err := s.store.FindAccountKey(ctx, alg, publicKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Issued{}, ErrUnknownKey
		}
		return Issued{}, err
	}
	if account == nil {
		return Issued{}, ErrUnknownKey
	}
	if account.Banned {
		return Issued{}, ErrAccountBanned
	}

	now := s.now()
	token := model.Token{
		JTI:       uuid.NewString(),
		AccountID: &account.ID,
		KeyID:     key.ID,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		KeyID: key.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.JTI,
			Subject:   strconv.FormatInt(account.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return Issued{}, err
	}
	if err := s.store.CreateToken(ctx, token); err != nil {
		return Issued{}, err
	}
	return Issued{AccessToken: signed, Token: token, Account: *account}, nil
}

// Authenticate validates the JWT and checks that its jti was not revoked and
// its account is still allowed in.
func (s *Service) Authenticate(ctx context.Context, bearer string) (Verified, error) {
	parsed, err := jwt.ParseWithClaims(bearer, &claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Verified{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.ID == "" {
		return Verified{}, ErrInvalidToken
	}

	stored, err := s.store.GetToken(ctx, c.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Verified{}, fmt.Errorf("%w: token revoked", ErrInvalidToken)
		}
		return Verified{}, err
	}
	if stored.AccountID == nil {
		return Verified{}, ErrInvalidToken
	}
	account, err := s.store.GetAccount(ctx, *stored.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Verified{}, ErrInvalidToken
		}
		return Verified{}, err
	}
	if account.Banned {
		return Verified{}, ErrAccountBanned
	}
	return Verified{AccountID: account.ID, KeyID: stored.KeyID, JTI: stored.JTI, ExpiresAt: stored.ExpiresAt}, nil
}

// Logout revokes the token identified by jti.
func (s *Service) Logout(ctx context.Context, jti string) error {
	return s.store.DeleteToken(ctx, jti)
}

// Purge drops expired challenges and tokens.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	return s.store.PurgeExpiredAuth(ctx, s.now())
}

func randomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
