package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// lineTable describe una tabla de líneas valorizadas (facture_lignes, devis_lignes).
type lineTable struct {
	name string
	fk   string
}

var (
	invoiceLines = lineTable{name: "facture_lignes", fk: "facture_id"}
	quoteLines   = lineTable{name: "devis_lignes", fk: "devis_id"}
)

// insertLines inserta las líneas en orden; position conserva el orden de captura.
func insertLines(ctx context.Context, q Querier, t lineTable, docID string, lines []entity.DocumentLine) error {
	query := `INSERT INTO ` + t.name + ` (id, ` + t.fk + `, product_id, description, quantity, unit_price, tax_rate, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range lines {
		l := &lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.DocumentID = docID
		if _, err := q.Exec(ctx, query,
			l.ID, docID, nullIfEmpty(l.ProductID), l.Description, l.Quantity, l.UnitPrice, l.TaxRate, i,
		); err != nil {
			return fmt.Errorf("insert %s: %w", t.name, err)
		}
	}
	return nil
}

func deleteLines(ctx context.Context, q Querier, t lineTable, docID string) error {
	if _, err := q.Exec(ctx, `DELETE FROM `+t.name+` WHERE `+t.fk+` = $1`, docID); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return nil
}

func loadLines(ctx context.Context, q Querier, t lineTable, docID string) ([]entity.DocumentLine, error) {
	rows, err := q.Query(ctx, `
		SELECT id, `+t.fk+`, product_id, description, quantity, unit_price, tax_rate
		FROM `+t.name+` WHERE `+t.fk+` = $1 ORDER BY position`, docID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()
	var lines []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		var productID *string
		if err := rows.Scan(&l.ID, &l.DocumentID, &productID, &l.Description, &l.Quantity, &l.UnitPrice, &l.TaxRate); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		l.ProductID = derefStr(productID)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// nextNumber calcula el siguiente consecutivo PREFIJO-AÑO-NNNN de una tabla de documentos.
func nextNumber(ctx context.Context, q Querier, table, prefix, userID string, year int) (string, error) {
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	var last int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(split_part(number, '-', 3) AS INT)), 0)
		FROM `+table+` WHERE user_id = $1 AND number LIKE $2`, userID, pattern).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("next number %s: %w", table, err)
	}
	return formatNumber(prefix, year, last+1), nil
}

// filterClause arma el WHERE común de listados (user_id + estado/cliente opcionales).
func filterClause(alias, userID, status, clientID string) (string, []any) {
	where := ` WHERE ` + alias + `.user_id = $1`
	args := []any{userID}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND %s.status = $%d`, alias, len(args))
	}
	if clientID != "" {
		args = append(args, clientID)
		where += fmt.Sprintf(` AND %s.client_id = $%d`, alias, len(args))
	}
	return where, args
}

func pageClause(args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	return fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args
}
