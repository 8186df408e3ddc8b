package access

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/event"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
	"github.com/jhoicas/facturation-api/pkg/logger"
)

// SubscriptionConfig duración de cada plan en días.
type SubscriptionConfig struct {
	TrialDays  int
	AnnualDays int
}

// SubscriptionService consulta y activa suscripciones.
//
// La expiración es perezosa: Current detecta una fila active ya vencida y la pasa
// a expired antes de responder. SweepExpired hace el mismo trabajo para todos los
// usuarios y acota la ventana en la que la fila queda desactualizada en base de datos.
type SubscriptionService struct {
	repo      repository.SubscriptionRepository
	cache     Cache
	publisher event.Publisher
	cfg       SubscriptionConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewSubscriptionService construye el servicio. cache y publisher pueden ser nil.
func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	cache Cache,
	publisher event.Publisher,
	cfg SubscriptionConfig,
	log *logger.Logger,
) *SubscriptionService {
	if cache == nil {
		cache = noCache{}
	}
	if publisher == nil {
		publisher = event.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = 14
	}
	if cfg.AnnualDays <= 0 {
		cfg.AnnualDays = 365
	}
	return &SubscriptionService{repo: repo, cache: cache, publisher: publisher, cfg: cfg, log: log, now: time.Now}
}

// Current devuelve la suscripción del usuario (nil si nunca tuvo una).
// Una suscripción cacheada que ya venció se trata como miss.
//
// El barrido periódico (SweepExpired) no invalida la caché: una entrada puede seguir
// diciendo active después de que la fila pasó a expired. Es correcto solo porque
// NeedsExpiry se evalúa sobre ExpiresAt en cada lectura, y una entrada vencida cae
// siempre al repositorio.
func (s *SubscriptionService) Current(ctx context.Context, userID string) (*entity.Subscription, error) {
	now := s.now()
	if sub, ok := s.cache.Subscription(ctx, userID); ok && !sub.NeedsExpiry(now) {
		return sub, nil
	}

	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("subscription: get: %w", err)
	}
	if sub.NeedsExpiry(now) {
		if err := s.repo.Expire(ctx, userID); err != nil {
			return nil, fmt.Errorf("subscription: expire: %w", err)
		}
		sub.Status = entity.SubscriptionExpired
		s.log.Info().Str("user_id", userID).Time("expires_at", sub.ExpiresAt).Msg("suscripción expirada al consultar")
	}
	s.cache.StoreSubscription(ctx, userID, sub)
	return sub, nil
}

// IsActive informa si el usuario tiene una suscripción vigente.
func (s *SubscriptionService) IsActive(ctx context.Context, userID string) (bool, error) {
	sub, err := s.Current(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsActiveAt(s.now()), nil
}

// Activate crea o extiende la suscripción tras un pago (o un trial).
func (s *SubscriptionService) Activate(ctx context.Context, userID, plan, orderID string) (*entity.Subscription, error) {
	if !entity.IsValidPlan(plan) {
		return nil, fmt.Errorf("%w: plan %q desconocido", domain.ErrInvalidInput, plan)
	}
	days := s.cfg.AnnualDays
	if plan == entity.PlanTrial {
		days = s.cfg.TrialDays
	}
	sub, err := s.repo.CreateOrUpdate(ctx, userID, plan, orderID, days)
	if err != nil {
		return nil, fmt.Errorf("subscription: activate: %w", err)
	}
	s.cache.Invalidate(ctx, userID)

	if err := s.publisher.Publish(ctx, event.SubscriptionActivated{
		UserID: userID, Plan: plan, OrderID: orderID, ExpiresAt: sub.ExpiresAt,
	}); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo publicar subscription.activated")
	}
	return sub, nil
}

// StartTrial activa la prueba gratuita. Solo se permite si el usuario nunca tuvo suscripción.
func (s *SubscriptionService) StartTrial(ctx context.Context, userID string) (*entity.Subscription, error) {
	existing, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("subscription: get: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la prueba gratuita ya fue utilizada", domain.ErrConflict)
	}
	return s.Activate(ctx, userID, entity.PlanTrial, "")
}

// SweepExpired expira todas las suscripciones vencidas y devuelve cuántas cambió.
func (s *SubscriptionService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireDue(ctx)
	if err != nil {
		return 0, fmt.Errorf("subscription: sweep: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("expired", n).Msg("barrido de suscripciones")
		if err := s.publisher.Publish(ctx, event.SubscriptionsExpired{Count: n, At: s.now()}); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo publicar subscriptions.expired")
		}
	}
	return n, nil
}

// RunSweeper ejecuta SweepExpired cada interval hasta que ctx se cancele.
func (s *SubscriptionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.log.Error().Err(err).Msg("barrido de suscripciones fallido")
			}
		}
	}
}
