// Package access agrupa sesión, suscripción y control de acceso: quién es el
// usuario, qué permisos tiene, si su suscripción está vigente y a dónde debe
// redirigirse cuando una ruta no le está permitida.
package access

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
	"github.com/jhoicas/facturation-api/pkg/jwt"
)

// Estados de sesión. loading solo existe en el cliente.
const (
	StateAuthenticated   = "authenticated"
	StateUnauthenticated = "unauthenticated"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Session snapshot de la sesión de un usuario en un instante.
type Session struct {
	State        string
	Profile      *entity.Profile
	Permissions  entity.PermissionSet
	Subscription *entity.Subscription
	At           time.Time
}

// Anonymous sesión sin usuario.
func Anonymous() *Session {
	return &Session{State: StateUnauthenticated, Permissions: entity.PermissionSet{}, At: time.Now()}
}

// Authenticated informa si hay un usuario en la sesión.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == StateAuthenticated && s.Profile != nil
}

// HasPermission consulta el conjunto de permisos.
func (s *Session) HasPermission(id string) bool {
	return s != nil && s.Permissions.Has(id)
}

// HasActiveSubscription aplica el invariante de suscripción en el instante del snapshot.
func (s *Session) HasActiveSubscription() bool {
	return s != nil && s.Subscription.IsActiveAt(s.At)
}

// SessionService registro, login y snapshot de sesión.
type SessionService struct {
	profiles      repository.ProfileRepository
	permissions   repository.PermissionRepository
	subscriptions *SubscriptionService
	cache         Cache
	jwtCfg        JWTConfig
	now           func() time.Time
}

// NewSessionService construye el servicio. cache puede ser nil.
func NewSessionService(
	profiles repository.ProfileRepository,
	permissions repository.PermissionRepository,
	subscriptions *SubscriptionService,
	cache Cache,
	jwtCfg JWTConfig,
) *SessionService {
	if cache == nil {
		cache = noCache{}
	}
	return &SessionService{
		profiles:      profiles,
		permissions:   permissions,
		subscriptions: subscriptions,
		cache:         cache,
		jwtCfg:        jwtCfg,
		now:           time.Now,
	}
}

// Register crea el perfil (dueño de su cuenta, rol admin) y concede los permisos por defecto.
func (s *SessionService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.ProfileResponse, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	existing, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now()
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = email
	}
	profile := &entity.Profile{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.permissions.Grant(ctx, profile.ID, entity.DefaultPermissions...); err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

// Login verifica email/password, genera JWT y devuelve token + sesión.
func (s *SessionService) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(in.Email)))
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(s.jwtCfg.Secret,
		jwt.Session{UserID: profile.ID, Email: profile.Email, Role: profile.Role},
		s.jwtCfg.Issuer, time.Duration(s.jwtCfg.ExpMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	session, err := s.build(ctx, profile)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Session: *ToSessionResponse(session)}, nil
}

// Logout limpia la caché del usuario. El token JWT lo descarta el cliente.
func (s *SessionService) Logout(ctx context.Context, userID string) {
	if userID != "" {
		s.cache.Invalidate(ctx, userID)
	}
}

// Me construye el snapshot de sesión. Sin userID (o perfil borrado) devuelve sesión anónima.
func (s *SessionService) Me(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return Anonymous(), nil
	}
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return Anonymous(), nil
	}
	return s.build(ctx, profile)
}

// Permissions devuelve el conjunto de permisos del usuario (con caché).
func (s *SessionService) Permissions(ctx context.Context, userID string) (entity.PermissionSet, error) {
	if ids, ok := s.cache.Permissions(ctx, userID); ok {
		return entity.NewPermissionSet(ids), nil
	}
	ids, err := s.permissions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("session: permisos: %w", err)
	}
	s.cache.StorePermissions(ctx, userID, ids)
	return entity.NewPermissionSet(ids), nil
}

// HasPermission atajo usado por el middleware de permisos.
func (s *SessionService) HasPermission(ctx context.Context, userID string, ids ...string) (bool, error) {
	set, err := s.Permissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.HasAll(ids...), nil
}

func (s *SessionService) build(ctx context.Context, profile *entity.Profile) (*Session, error) {
	perms, err := s.Permissions(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	sub, err := s.subscriptions.Current(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		State:        StateAuthenticated,
		Profile:      profile,
		Permissions:  perms,
		Subscription: sub,
		At:           s.now(),
	}, nil
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}

// ToSessionResponse convierte el snapshot en el DTO de /api/auth/me. Permisos ordenados.
func ToSessionResponse(s *Session) *dto.SessionResponse {
	perms := s.Permissions.List()
	sort.Strings(perms)
	return &dto.SessionResponse{
		State:        s.State,
		Profile:      toProfileResponse(s.Profile),
		Permissions:  perms,
		Subscription: ToSubscriptionResponse(s.Subscription, s.At),
	}
}

// ToSubscriptionResponse convierte la fila en el DTO; nil → status "none".
func ToSubscriptionResponse(sub *entity.Subscription, now time.Time) dto.SubscriptionResponse {
	if sub == nil {
		return dto.SubscriptionResponse{Status: entity.SubscriptionNone}
	}
	started, expires := sub.StartedAt, sub.ExpiresAt
	return dto.SubscriptionResponse{
		Plan:      sub.Plan,
		Status:    sub.Status,
		Active:    sub.IsActiveAt(now),
		StartedAt: &started,
		ExpiresAt: &expires,
	}
}
