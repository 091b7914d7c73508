package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/pkg/jwt"
)

// SessionConfig configuración para generación de tokens de sesión.
type SessionConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// CredentialStore credencial única del sistema: usuario y hash bcrypt de la contraseña.
type CredentialStore struct {
	username     string
	passwordHash []byte
}

// NewCredentialStore construye el store. Si passwordHash está vacío se hashea password al inicio,
// así el texto plano no queda en memoria después del arranque.
func NewCredentialStore(username, password, passwordHash string) (*CredentialStore, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("auth: usuario vacío")
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("auth: hash bcrypt inválido: %w", err)
		}
		return &CredentialStore{username: username, passwordHash: []byte(passwordHash)}, nil
	}
	if password == "" {
		return nil, fmt.Errorf("auth: contraseña vacía")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &CredentialStore{username: username, passwordHash: hash}, nil
}

// Verify compara usuario (tiempo constante) y contraseña (bcrypt).
// Siempre ejecuta bcrypt para que un usuario incorrecto no responda más rápido.
func (s *CredentialStore) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

// Session usuario autenticado extraído del token.
type Session struct {
	Username  string
	ExpiresAt time.Time
}

type sessionKey struct{}

// WithSession guarda la sesión en el contexto.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext devuelve la sesión del contexto, si existe.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// AuthUseCase casos de uso de autenticación: login y validación de sesión.
type AuthUseCase struct {
	creds *CredentialStore
	cfg   SessionConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(creds *CredentialStore, cfg SessionConfig) *AuthUseCase {
	return &AuthUseCase{creds: creds, cfg: cfg}
}

// Login verifica la credencial y devuelve un token de sesión firmado.
// Cualquier fallo devuelve domain.ErrUnauthorized sin indicar qué campo falló.
func (uc *AuthUseCase) Login(username, password string) (string, error) {
	if !uc.creds.Verify(username, password) {
		return "", domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.cfg.Secret, strings.TrimSpace(username), uc.cfg.Issuer, uc.cfg.ExpMinutes)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ParseSession valida el token de la cookie. domain.ErrUnauthorized si es inválido o expiró.
func (uc *AuthUseCase) ParseSession(token string) (Session, error) {
	if token == "" {
		return Session{}, domain.ErrUnauthorized
	}
	username, exp, err := jwt.Parse(uc.cfg.Secret, token)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return Session{Username: username, ExpiresAt: exp}, nil
}

// TTL duración de la sesión.
func (uc *AuthUseCase) TTL() time.Duration {
	return time.Duration(uc.cfg.ExpMinutes) * time.Minute
}
