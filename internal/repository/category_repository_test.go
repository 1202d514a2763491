package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"sistema-vendas/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryRowColumns = []string{"id", "nome", "descricao"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

type failingProvider struct {
	err error
}

func (p failingProvider) Conn(ctx context.Context) (*sql.Conn, error) {
	return nil, p.err
}

func TestCategoryRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories (nome, descricao)")).
		WithArgs("Eletrônicos", "Produtos eletrônicos").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	category := &domain.Category{Name: "Eletrônicos", Description: "Produtos eletrônicos"}
	err := repo.Create(context.Background(), category)

	require.NoError(t, err)
	assert.Equal(t, int64(42), category.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_CreateFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	cause := errors.New("connection reset by peer")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).WillReturnError(cause)

	category := &domain.Category{Name: "Livros"}
	err := repo.Create(context.Background(), category)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataAccess))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to create category")
	assert.Zero(t, category.ID, "ID must stay unset when the insert fails")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY nome ASC")).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns).
			AddRow(int64(2), "Bebidas", "Sucos e refrigerantes").
			AddRow(int64(1), "Livros", nil))

	categories, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{ID: 2, Name: "Bebidas", Description: "Sucos e refrigerantes"},
		{ID: 1, Name: "Livros", Description: ""},
	}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_ListEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories")).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns))

	categories, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestCategoryRepository_ListScanError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories")).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns).AddRow("not-a-number", "Bebidas", ""))

	categories, err := repo.List(context.Background())

	assert.Nil(t, categories)
	assert.True(t, errors.Is(err, ErrDataAccess))
}

func TestCategoryRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns).AddRow(int64(7), "Bebidas", "Sucos"))

	category, found, err := repo.FindByID(context.Background(), 7)

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, &domain.Category{ID: 7, Name: "Bebidas", Description: "Sucos"}, category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns))

	category, found, err := repo.FindByID(context.Background(), 99)

	require.NoError(t, err, "a missing row is not an error")
	assert.False(t, found)
	assert.Nil(t, category)
}

func TestCategoryRepository_FindByIDFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).WillReturnError(sql.ErrConnDone)

	category, found, err := repo.FindByID(context.Background(), 1)

	assert.Nil(t, category)
	assert.False(t, found)
	assert.True(t, errors.Is(err, ErrDataAccess))
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestCategoryRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET nome = $1, descricao = $2 WHERE id = $3")).
		WithArgs("Bebidas", "Sucos", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), domain.Category{ID: 3, Name: "Bebidas", Description: "Sucos"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_UpdateMissingIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), domain.Category{ID: 404, Name: "Nada"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 5))
	require.NoError(t, repo.Delete(context.Background(), 5), "deleting twice is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_FindByName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string
	}{
		{"plain substring", "eletro", "%eletro%"},
		{"empty matches everything", "", "%%"},
		{"percent is literal", "100%", `%100\%%`},
		{"underscore is literal", "a_b", `%a\_b%`},
		{"backslash is literal", `a\b`, `%a\\b%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewCategoryRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta("WHERE unaccent(nome) ILIKE unaccent($1)")).
				WithArgs(tt.pattern).
				WillReturnRows(sqlmock.NewRows(categoryRowColumns).
					AddRow(int64(1), "Eletrônicos", "Produtos eletrônicos"))

			categories, err := repo.FindByName(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Len(t, categories, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCategoryRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	total, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestCategoryRepository_CountNoRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}))

	total, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCategoryRepository_ConnectionFailure(t *testing.T) {
	cause := errors.New("too many clients already")
	repo := NewCategoryRepository(failingProvider{err: cause})
	ctx := context.Background()

	_, err := repo.List(ctx)
	assert.True(t, errors.Is(err, ErrDataAccess))
	assert.True(t, errors.Is(err, cause))

	_, err = repo.Count(ctx)
	assert.True(t, errors.Is(err, ErrDataAccess))

	err = repo.Delete(ctx, 1)
	var dae *DataAccessError
	require.True(t, errors.As(err, &dae))
	assert.Equal(t, "delete category", dae.Op)
}
