package usecases

import (
	"context"
	"fmt"
	"time"

	"umb_panel/internal/entities"
	"umb_panel/internal/infrastructure"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthUsecase exchanges operator credentials for a backend bearer token and
// wraps it in a persisted panel session. The browser only ever sees the panel
// token; the backend credential stays server-side.
type AuthUsecase struct {
	backend   *infrastructure.BackendClient
	store     *infrastructure.SessionStore
	jwtSecret []byte
}

func NewAuthUsecase(backend *infrastructure.BackendClient, store *infrastructure.SessionStore, secret string) *AuthUsecase {
	return &AuthUsecase{
		backend:   backend,
		store:     store,
		jwtSecret: []byte(secret),
	}
}

// Login authenticates against the management backend. A backend failure is a
// hard error: no session is created and nothing is persisted.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, *entities.Session, error) {
	result, err := uc.backend.Login(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	sess := &entities.Session{
		ID:        uuid.NewString(),
		Token:     result.Token,
		Profile:   result.Profile,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.store.Save(sess); err != nil {
		return "", nil, fmt.Errorf("persist session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":  sess.ID,
		"role": sess.Profile.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %v", err)
	}
	return signed, sess, nil
}

// SessionFromToken resolves a panel token back to its persisted session.
// A valid token whose session was force-cleared (backend 401) resolves to
// ErrSessionExpired, which is what sends the client back to login.
func (uc *AuthUsecase) SessionFromToken(tokenString string) (*entities.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, infrastructure.ErrSessionExpired
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, infrastructure.ErrSessionExpired
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, infrastructure.ErrSessionExpired
	}

	sess, err := uc.store.Get(sid)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, infrastructure.ErrSessionExpired
	}
	return sess, nil
}

func (uc *AuthUsecase) Logout(sess *entities.Session) error {
	return uc.store.Delete(sess.ID)
}

// Profile re-fetches the operator profile from the backend.
func (uc *AuthUsecase) Profile(ctx context.Context, sess *entities.Session) (*entities.Profile, error) {
	return uc.backend.Me(ctx, sess)
}
