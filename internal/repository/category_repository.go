package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"sistema-vendas/internal/domain"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, bool, error)
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id int64) error
	FindByName(ctx context.Context, name string) ([]domain.Category, error)
	Count(ctx context.Context) (int, error)
}

type categoryRepository struct {
	db ConnectionProvider
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db ConnectionProvider) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, nome, descricao`

// Create inserts a new category and stores the generated key in category.ID
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (nome, descricao)
		VALUES ($1, $2)
		RETURNING id
	`

	return withConn(ctx, r.db, "create category", func(conn *sql.Conn) error {
		var id int64
		if err := conn.QueryRowContext(ctx, query, category.Name, category.Description).Scan(&id); err != nil {
			return err
		}
		category.ID = id
		return nil
	})
}

// List retrieves all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY nome ASC
	`

	var categories []domain.Category
	err := withConn(ctx, r.db, "list categories", func(conn *sql.Conn) error {
		var err error
		categories, err = queryCategories(ctx, conn, query)
		return err
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// FindByID retrieves a category by ID. found is false when no row matches.
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, bool, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1
	`

	var category domain.Category
	found := false
	err := withConn(ctx, r.db, "find category by ID", func(conn *sql.Conn) error {
		var err error
		category, err = scanCategory(conn.QueryRowContext(ctx, query, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false, err
	}

	return &category, true, nil
}

// Update overwrites name and description. Updating a missing ID is a no-op.
func (r *categoryRepository) Update(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET nome = $1, descricao = $2
		WHERE id = $3
	`

	return withConn(ctx, r.db, "update category", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, query, category.Name, category.Description, category.ID)
		return err
	})
}

// Delete removes a category. Deleting a missing ID is a no-op.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	return withConn(ctx, r.db, "delete category", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, query, id)
		return err
	})
}

// FindByName returns the categories whose name contains name, ignoring case
// and accents. An empty name matches every category.
func (r *categoryRepository) FindByName(ctx context.Context, name string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE unaccent(nome) ILIKE unaccent($1)
		ORDER BY nome ASC
	`

	var categories []domain.Category
	err := withConn(ctx, r.db, "find categories by name", func(conn *sql.Conn) error {
		var err error
		categories, err = queryCategories(ctx, conn, query, containsPattern(name))
		return err
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Count returns the number of categories
func (r *categoryRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM categories`

	var total int
	err := withConn(ctx, r.db, "count categories", func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, query).Scan(&total)
		if errors.Is(err, sql.ErrNoRows) {
			total = 0
			return nil
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func queryCategories(ctx context.Context, conn *sql.Conn, query string, args ...any) ([]domain.Category, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		id          int64
		name        string
		description sql.NullString
	)
	if err := row.Scan(&id, &name, &description); err != nil {
		return domain.Category{}, err
	}

	return domain.Category{
		ID:          id,
		Name:        name,
		Description: description.String,
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into a LIKE pattern matching s literally anywhere
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
