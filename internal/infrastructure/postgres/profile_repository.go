package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

var (
	_ repository.ProfileRepository    = (*ProfileRepo)(nil)
	_ repository.PermissionRepository = (*PermissionRepo)(nil)
)

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Create persiste un nuevo perfil. El email es único.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO profiles (id, email, password_hash, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Email, p.PasswordHash, p.FullName, p.Role, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail obtiene un perfil por email (case-insensitive).
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return r.findOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (r *ProfileRepo) findOne(ctx context.Context, where string, arg string) (*entity.Profile, error) {
	query := `SELECT id, email, password_hash, full_name, role, created_at, updated_at FROM profiles ` + where
	var p entity.Profile
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// PermissionRepo lee y concede permisos de user_permissions.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// ListByUser devuelve los identificadores de permiso del usuario.
func (r *PermissionRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT permission_id FROM user_permissions WHERE user_id = $1 ORDER BY permission_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Grant concede permisos; los ya concedidos se ignoran.
func (r *PermissionRepo) Grant(ctx context.Context, userID string, permissionIDs ...string) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_permissions (user_id, permission_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING`, userID, permissionIDs)
	if err != nil {
		return fmt.Errorf("grant permissions: %w", err)
	}
	return nil
}
