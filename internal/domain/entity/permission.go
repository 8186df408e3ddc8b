package entity

// Identificadores de permiso (opacos para la aplicación; se comparan contra user_permissions).
const (
	PermissionInvoices      = "factures"
	PermissionQuotes        = "devis"
	PermissionDeliveryNotes = "bon-de-sortie"
	PermissionClients       = "clients"
	PermissionProducts      = "produits"
	PermissionCategories    = "categories"
	PermissionSettings      = "parametres"
	PermissionDashboard     = "dashboard"
)

// DefaultPermissions se conceden al registrarse.
var DefaultPermissions = []string{
	PermissionDashboard,
	PermissionInvoices,
	PermissionQuotes,
	PermissionDeliveryNotes,
	PermissionClients,
	PermissionProducts,
	PermissionCategories,
	PermissionSettings,
}

// PermissionSet conjunto de permisos de un usuario.
type PermissionSet map[string]struct{}

// NewPermissionSet construye el conjunto a partir de una lista.
func NewPermissionSet(ids []string) PermissionSet {
	s := make(PermissionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has informa si el permiso está concedido.
func (s PermissionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// HasAll informa si todos los permisos están concedidos.
func (s PermissionSet) HasAll(ids ...string) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// List devuelve los permisos como slice (orden no garantizado).
func (s PermissionSet) List() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}
