package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-web-gallery/internal/model"
)

// txRecorder is shared by a fake root transaction and its savepoints so a
// test can observe which statements survived a failing one.
type txRecorder struct {
	statements []string
	failWhen   func(sql string) bool
	begun      int
	committed  int
	rolledBack int
}

type fakeTx struct {
	rec *txRecorder
}

func (t *fakeTx) Begin(_ context.Context) (pgx.Tx, error) {
	t.rec.begun++
	return &fakeTx{rec: t.rec}, nil
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.rec.committed++
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.rec.rolledBack++
	return nil
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if t.rec.failWhen != nil && t.rec.failWhen(sql) {
		return pgconn.CommandTag{}, errors.New("value too long for type")
	}
	t.rec.statements = append(t.rec.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	if t.rec.failWhen != nil && t.rec.failWhen(sql) {
		return fakeRow{err: errors.New("value too long for type")}
	}
	t.rec.statements = append(t.rec.statements, sql)
	return fakeRow{id: 1}
}

func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (t *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not supported")
}

func (t *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(_ context.Context, _ string, _ string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not supported")
}
func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeRow struct {
	err error
	id  int64
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if p, ok := dest[0].(*int64); ok {
			*p = r.id
		}
	}
	return nil
}

func recorded(rec *txRecorder, fragment string) bool {
	for _, sql := range rec.statements {
		if strings.Contains(sql, fragment) {
			return true
		}
	}
	return false
}

func TestInsertMetadata_FailedStatementDoesNotPoisonTheRest(t *testing.T) {
	rec := &txRecorder{
		failWhen: func(sql string) bool { return strings.Contains(sql, "meta_location") },
	}

	insertMetadata(context.Background(), &fakeTx{rec: rec}, 7, model.PhotoMetadata{
		Country:  "Iceland",
		City:     "Vik",
		Make:     "Canon",
		Keywords: []string{"glacier"},
	})

	// The location insert failed and was rolled back to its savepoint; the
	// remaining side tables still landed.
	assert.False(t, recorded(rec, "meta_location"))
	assert.True(t, recorded(rec, "meta_exif"))
	assert.True(t, recorded(rec, "meta_iptc"))
	assert.True(t, recorded(rec, "picture_keywords"))
	assert.GreaterOrEqual(t, rec.rolledBack, 1)
}

func TestInsertMetadata_EachStatementRunsInASavepoint(t *testing.T) {
	rec := &txRecorder{}

	insertMetadata(context.Background(), &fakeTx{rec: rec}, 7, model.PhotoMetadata{
		Keywords: []string{"beach", "  ", "sunset"},
	})

	// location, exif, iptc, plus one savepoint per non-blank keyword.
	assert.Equal(t, 5, rec.begun)
	assert.Equal(t, 5, rec.committed)
	assert.Zero(t, rec.rolledBack)
}

func TestWithSavepoint_RollsBackOnError(t *testing.T) {
	rec := &txRecorder{}

	sentinel := errors.New("boom")
	err := withSavepoint(context.Background(), &fakeTx{rec: rec}, func(pgx.Tx) error {
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, rec.rolledBack)
	assert.Zero(t, rec.committed)
}
