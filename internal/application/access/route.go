package access

import (
	"net/url"
	"strings"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// Rutas de redirección del front.
const (
	LoginPath        = "/login"
	DashboardPath    = "/dashboard"
	UnauthorizedPath = "/unauthorized"
)

// RouteRule requisitos de una ruta del navegador.
type RouteRule struct {
	RequireAuth  bool
	NoAuth       bool // solo para anónimos (login/register)
	Subscription bool
	Permissions  []string
	Roles        []string
}

// Routes tabla de rutas protegidas del front.
var Routes = map[string]RouteRule{
	"/":                {},
	"/login":           {NoAuth: true},
	"/register":        {NoAuth: true},
	"/dashboard":       {RequireAuth: true, Subscription: true, Permissions: []string{entity.PermissionDashboard}},
	"/factures":        {RequireAuth: true, Subscription: true, Permissions: []string{entity.PermissionInvoices}},
	"/devis":           {RequireAuth: true, Subscription: true, Permissions: []string{entity.PermissionQuotes}},
	"/bon-de-sortie":   {RequireAuth: true, Subscription: true, Permissions: []string{entity.PermissionDeliveryNotes}},
	"/clients":         {RequireAuth: true, Subscription: true, Permissions: []string{entity.PermissionClients}},
	"/produits":        {RequireAuth: true, Subscription: true, Permissions: []string{entity.PermissionProducts}},
	"/categories":      {RequireAuth: true, Subscription: true, Permissions: []string{entity.PermissionCategories}},
	"/parametres":      {RequireAuth: true, Permissions: []string{entity.PermissionSettings}, Roles: []string{entity.RoleAdmin}},
	"/paiement-reussi": {RequireAuth: true},
	"/paiement-echoue": {RequireAuth: true},
	"/unauthorized":    {},
}

// RouteDecision resultado de ResolveRoute. Redirect vacío con Allowed=false
// significa mostrar la pantalla de Reason en lugar de redirigir.
type RouteDecision struct {
	Path     string
	Allowed  bool
	Redirect string
	Reason   string
}

// ResolveRoute aplica las reglas de ProtectedRoute a una ruta del navegador:
//   - anónimo en ruta con auth → /login?from=<ruta>
//   - autenticado en /login o /register → /dashboard
//   - sin el rol requerido → /unauthorized
//
// Suscripción y permisos no redirigen: el Guard muestra su pantalla.
func ResolveRoute(s *Session, path string) RouteDecision {
	path = normalizePath(path)
	rule, ok := Routes[path]
	if !ok {
		return RouteDecision{Path: path, Reason: ReasonNotFound}
	}
	authed := s.Authenticated()

	if rule.NoAuth {
		if authed {
			return RouteDecision{Path: path, Redirect: DashboardPath}
		}
		return RouteDecision{Path: path, Allowed: true}
	}
	if !rule.RequireAuth {
		return RouteDecision{Path: path, Allowed: true}
	}
	if !authed {
		return RouteDecision{
			Path:     path,
			Redirect: LoginPath + "?from=" + url.QueryEscape(path),
			Reason:   ReasonUnauthenticated,
		}
	}
	if len(rule.Roles) > 0 && !hasRole(s.Profile.Role, rule.Roles) {
		return RouteDecision{Path: path, Redirect: UnauthorizedPath, Reason: ReasonMissingRole}
	}
	d := Guard{SkipSubscription: !rule.Subscription}.Evaluate(s, rule.Permissions...)
	return RouteDecision{Path: path, Allowed: d.Allowed, Reason: d.Reason}
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
