// Package repositories holds the PostgreSQL persistence layer.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/MolParse/pkg/errors"
	"github.com/turtacn/MolParse/pkg/types/chem"
	"github.com/turtacn/MolParse/pkg/types/common"
)

// querier is the slice of pgxpool.Pool the repository needs; tests satisfy
// it with an in-memory fake.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MoleculeRecord is a persisted parse result.  SMILESHash is the SHA-256 of
// the input and the upsert key: re-parsing the same string updates the row.
type MoleculeRecord struct {
	ID               common.ID
	SMILES           string
	SMILESHash       string
	MolecularFormula string
	MolecularWeight  float64
	AtomCount        int
	BondCount        int
	Graph            *chem.MoleculeGraphDTO
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MoleculeRepository is the PostgreSQL store for parsed molecules.
type MoleculeRepository struct {
	db     querier
	logger logging.Logger
}

// NewMoleculeRepository builds a repository over the pool.
func NewMoleculeRepository(db querier, logger logging.Logger) *MoleculeRepository {
	return &MoleculeRepository{db: db, logger: logger}
}

// Save upserts the record keyed by its SMILES hash.  The graph is stored as
// JSONB.
func (r *MoleculeRepository) Save(ctx context.Context, rec *MoleculeRecord) error {
	graphJSON, err := json.Marshal(rec.Graph)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "marshal molecule graph")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO molecules (
			id, smiles, smiles_hash, molecular_formula, molecular_weight,
			atom_count, bond_count, graph, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (smiles_hash) DO UPDATE SET
			molecular_formula = EXCLUDED.molecular_formula,
			molecular_weight  = EXCLUDED.molecular_weight,
			atom_count        = EXCLUDED.atom_count,
			bond_count        = EXCLUDED.bond_count,
			graph             = EXCLUDED.graph,
			updated_at        = EXCLUDED.updated_at`,
		rec.ID, rec.SMILES, rec.SMILESHash, rec.MolecularFormula, rec.MolecularWeight,
		rec.AtomCount, rec.BondCount, graphJSON, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("molecule save failed",
			logging.String("smiles_hash", rec.SMILESHash), logging.Err(err))
		return apperrors.Wrap(err, apperrors.ErrCodeMoleculePersistFailed, "insert molecule")
	}
	return nil
}

const selectColumns = `
	id, smiles, smiles_hash, molecular_formula, molecular_weight,
	atom_count, bond_count, graph, created_at, updated_at`

// FindByID fetches one record by primary key.
func (r *MoleculeRepository) FindByID(ctx context.Context, id common.ID) (*MoleculeRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+selectColumns+` FROM molecules WHERE id = $1`, id)
	return scanRecord(row)
}

// FindBySMILESHash fetches one record by the hash of its input string.
func (r *MoleculeRepository) FindBySMILESHash(ctx context.Context, hash string) (*MoleculeRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+selectColumns+` FROM molecules WHERE smiles_hash = $1`, hash)
	return scanRecord(row)
}

// List returns one page of records, newest first, plus the total count.
func (r *MoleculeRepository) List(ctx context.Context, page common.PageRequest) ([]*MoleculeRecord, int64, error) {
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM molecules`).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "count molecules")
	}

	rows, err := r.db.Query(ctx,
		`SELECT`+selectColumns+` FROM molecules ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "list molecules")
	}
	defer rows.Close()

	var out []*MoleculeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "iterate molecules")
	}
	return out, total, nil
}

// Delete removes a record; deleting an absent ID is a not-found error.
func (r *MoleculeRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM molecules WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "delete molecule")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodeMoleculeNotFound, "molecule not found").
			WithDetail(string(id))
	}
	return nil
}

func scanRecord(row pgx.Row) (*MoleculeRecord, error) {
	var rec MoleculeRecord
	var graphJSON []byte
	err := row.Scan(
		&rec.ID, &rec.SMILES, &rec.SMILESHash, &rec.MolecularFormula, &rec.MolecularWeight,
		&rec.AtomCount, &rec.BondCount, &graphJSON, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrCodeMoleculeNotFound, "molecule not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "scan molecule")
	}
	if len(graphJSON) > 0 {
		rec.Graph = &chem.MoleculeGraphDTO{}
		if err := json.Unmarshal(graphJSON, rec.Graph); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "unmarshal molecule graph")
		}
	}
	return &rec, nil
}
