package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/MolParse/pkg/errors"
	"github.com/turtacn/MolParse/pkg/types/chem"
	"github.com/turtacn/MolParse/pkg/types/common"
)

// fakeDB records the statements it receives and plays back canned rows.
type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	execTag  pgconn.CommandTag
	execErr  error

	row  pgx.Row
	rows pgx.Rows
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return f.rows, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return f.row
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, v := range r.values {
		if i >= len(dest) {
			break
		}
		assign(dest[i], v)
	}
	return nil
}

func assign(dest, v any) {
	switch d := dest.(type) {
	case *common.ID:
		*d = v.(common.ID)
	case *string:
		*d = v.(string)
	case *float64:
		*d = v.(float64)
	case *int:
		*d = v.(int)
	case *int64:
		*d = v.(int64)
	case *[]byte:
		*d = v.([]byte)
	case *time.Time:
		*d = v.(time.Time)
	}
}

func testRecord() *MoleculeRecord {
	now := time.Now().UTC()
	return &MoleculeRecord{
		ID:               common.NewID(),
		SMILES:           "CCO",
		SMILESHash:       "abc123",
		MolecularFormula: "C2H6O",
		MolecularWeight:  46.07,
		AtomCount:        3,
		BondCount:        2,
		Graph:            &chem.MoleculeGraphDTO{SMILES: "CCO", Components: 1},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestSaveUpsertsBySMILESHash(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	repo := NewMoleculeRepository(db, logging.NewNopLogger())

	rec := testRecord()
	require.NoError(t, repo.Save(context.Background(), rec))

	require.Len(t, db.execSQL, 1)
	assert.Contains(t, db.execSQL[0], "ON CONFLICT (smiles_hash)")
	require.Len(t, db.execArgs[0], 10)
	assert.Equal(t, rec.ID, db.execArgs[0][0])
	assert.Equal(t, "abc123", db.execArgs[0][2])

	// Graph travels as JSON bytes.
	var graph chem.MoleculeGraphDTO
	require.NoError(t, json.Unmarshal(db.execArgs[0][7].([]byte), &graph))
	assert.Equal(t, "CCO", graph.SMILES)
}

func TestSaveWrapsDatabaseError(t *testing.T) {
	db := &fakeDB{execErr: assert.AnError}
	repo := NewMoleculeRepository(db, logging.NewNopLogger())

	err := repo.Save(context.Background(), testRecord())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMoleculePersistFailed, apperrors.GetCode(err))
}

func TestFindByIDNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewMoleculeRepository(db, logging.NewNopLogger())

	_, err := repo.FindByID(context.Background(), common.NewID())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFindBySMILESHashScansRecord(t *testing.T) {
	want := testRecord()
	graphJSON, _ := json.Marshal(want.Graph)
	db := &fakeDB{row: fakeRow{values: []any{
		want.ID, want.SMILES, want.SMILESHash, want.MolecularFormula, want.MolecularWeight,
		want.AtomCount, want.BondCount, graphJSON, want.CreatedAt, want.UpdatedAt,
	}}}
	repo := NewMoleculeRepository(db, logging.NewNopLogger())

	got, err := repo.FindBySMILESHash(context.Background(), want.SMILESHash)
	require.NoError(t, err)
	assert.Equal(t, want.SMILES, got.SMILES)
	assert.Equal(t, want.MolecularFormula, got.MolecularFormula)
	require.NotNil(t, got.Graph)
	assert.Equal(t, 1, got.Graph.Components)
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 0")}
	repo := NewMoleculeRepository(db, logging.NewNopLogger())

	err := repo.Delete(context.Background(), common.NewID())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMoleculeNotFound, apperrors.GetCode(err))
}

func TestDeleteExistingRow(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 1")}
	repo := NewMoleculeRepository(db, logging.NewNopLogger())

	assert.NoError(t, repo.Delete(context.Background(), common.NewID()))
}
