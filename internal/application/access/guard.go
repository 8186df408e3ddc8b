package access

// Motivos de rechazo del Guard. Cada uno tiene su propia pantalla/código de error.
const (
	ReasonUnauthenticated   = "unauthenticated"
	ReasonNoSubscription    = "no_subscription"
	ReasonMissingPermission = "missing_permission"
	ReasonMissingRole       = "missing_role"
	ReasonNotFound          = "not_found"
)

// Decision resultado de evaluar el acceso.
type Decision struct {
	Allowed bool
	Reason  string
}

// Guard exige sesión autenticada, suscripción vigente y todos los permisos pedidos, en ese orden.
type Guard struct {
	// SkipSubscription desactiva el chequeo de suscripción (páginas de pago).
	SkipSubscription bool
}

// Evaluate decide el acceso para un snapshot de sesión.
func (g Guard) Evaluate(s *Session, required ...string) Decision {
	if !s.Authenticated() {
		return Decision{Reason: ReasonUnauthenticated}
	}
	if !g.SkipSubscription && !s.HasActiveSubscription() {
		return Decision{Reason: ReasonNoSubscription}
	}
	if !s.Permissions.HasAll(required...) {
		return Decision{Reason: ReasonMissingPermission}
	}
	return Decision{Allowed: true}
}
