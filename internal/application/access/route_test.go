package access_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturation-api/internal/application/access"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

func session(role string, subscribed bool, perms ...string) *access.Session {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s := &access.Session{
		State:       access.StateAuthenticated,
		Profile:     &entity.Profile{ID: "u1", Email: "a@b.tn", Role: role},
		Permissions: entity.NewPermissionSet(perms),
		At:          now,
	}
	if subscribed {
		s.Subscription = &entity.Subscription{Status: entity.SubscriptionActive, ExpiresAt: now.Add(time.Hour)}
	}
	return s
}

// ── Guard ─────────────────────────────────────────────────────────────────────

func TestGuard_Evaluate(t *testing.T) {
	g := access.Guard{}
	assert.Equal(t, access.Decision{Reason: access.ReasonUnauthenticated}, g.Evaluate(access.Anonymous()))
	assert.Equal(t, access.Decision{Reason: access.ReasonUnauthenticated}, g.Evaluate(nil))
	assert.Equal(t, access.Decision{Reason: access.ReasonNoSubscription}, g.Evaluate(session("user", false, "factures")))
	assert.Equal(t, access.Decision{Reason: access.ReasonMissingPermission},
		g.Evaluate(session("user", true, "factures"), "factures", "devis"))
	assert.Equal(t, access.Decision{Allowed: true}, g.Evaluate(session("user", true, "factures", "devis"), "factures", "devis"))

	expired := session("user", true)
	expired.Subscription.ExpiresAt = expired.At
	assert.Equal(t, access.ReasonNoSubscription, g.Evaluate(expired).Reason)

	assert.True(t, access.Guard{SkipSubscription: true}.Evaluate(session("user", false)).Allowed)
}

// ── ProtectedRoute ────────────────────────────────────────────────────────────

func TestResolveRoute_AnonimoVaALoginConservandoOrigen(t *testing.T) {
	d := access.ResolveRoute(access.Anonymous(), "/factures")
	assert.False(t, d.Allowed)
	assert.Equal(t, "/login?from=%2Ffactures", d.Redirect)
	assert.Equal(t, access.ReasonUnauthenticated, d.Reason)

	d = access.ResolveRoute(access.Anonymous(), "/bon-de-sortie/?x=1")
	assert.Equal(t, "/login?from=%2Fbon-de-sortie", d.Redirect)
}

func TestResolveRoute_AutenticadoEnLoginVaADashboard(t *testing.T) {
	for _, p := range []string{"/login", "/register"} {
		d := access.ResolveRoute(session("user", true), p)
		assert.Equal(t, "/dashboard", d.Redirect, p)
		assert.False(t, d.Allowed)
	}
	assert.True(t, access.ResolveRoute(access.Anonymous(), "/login").Allowed)
}

func TestResolveRoute_SinRolVaAUnauthorized(t *testing.T) {
	d := access.ResolveRoute(session(entity.RoleUser, true, entity.PermissionSettings), "/parametres")
	assert.Equal(t, "/unauthorized", d.Redirect)
	assert.Equal(t, access.ReasonMissingRole, d.Reason)

	d = access.ResolveRoute(session(entity.RoleAdmin, false, entity.PermissionSettings), "/parametres")
	assert.True(t, d.Allowed, "parámetros no exige suscripción")
}

func TestResolveRoute_SuscripcionYPermisosMuestranPantalla(t *testing.T) {
	d := access.ResolveRoute(session("user", false, entity.PermissionDashboard), "/dashboard")
	assert.False(t, d.Allowed)
	assert.Empty(t, d.Redirect)
	assert.Equal(t, access.ReasonNoSubscription, d.Reason)

	d = access.ResolveRoute(session("user", true), "/devis")
	assert.Equal(t, access.ReasonMissingPermission, d.Reason)

	assert.True(t, access.ResolveRoute(session("user", true, entity.PermissionQuotes), "/devis").Allowed)
}

func TestResolveRoute_PaginasDePagoSinSuscripcion(t *testing.T) {
	assert.True(t, access.ResolveRoute(session("user", false), "/paiement-reussi").Allowed)
	assert.Equal(t, "/login?from=%2Fpaiement-echoue", access.ResolveRoute(nil, "/paiement-echoue").Redirect)
}

func TestResolveRoute_RutaDesconocida(t *testing.T) {
	d := access.ResolveRoute(session("user", true), "/nope")
	assert.False(t, d.Allowed)
	assert.Equal(t, access.ReasonNotFound, d.Reason)
	assert.True(t, access.ResolveRoute(nil, "/").Allowed)
}
