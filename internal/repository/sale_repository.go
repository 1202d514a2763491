package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sistema-vendas/internal/domain"
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context) ([]domain.Sale, error)
	FindByID(ctx context.Context, id int64) (*domain.Sale, bool, error)
	Update(ctx context.Context, sale domain.Sale) error
	Delete(ctx context.Context, id int64) error
	FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Sale, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]domain.Sale, error)
	MonthlyTotals(ctx context.Context) (domain.MonthlyTotals, error)
	MonthlyTotalsRecent(ctx context.Context, monthsBack int) (domain.MonthlyTotals, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

type saleRepository struct {
	db  ConnectionProvider
	now func() time.Time
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db ConnectionProvider) SaleRepository {
	return &saleRepository{db: db, now: time.Now}
}

// Customer and product names come from LEFT JOINs so a sale whose references
// are gone is still returned, with empty names.
const saleSelect = `
		SELECT v.id, v.data_venda, v.cliente_id, v.produto_id, v.quantidade, v.valor_total,
		       c.nome AS cliente_nome, p.nome AS produto_nome
		FROM vendas v
		LEFT JOIN clientes c ON v.cliente_id = c.id
		LEFT JOIN produtos p ON v.produto_id = p.id
`

// Create inserts a new sale and stores the generated key in sale.ID
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO vendas (data_venda, cliente_id, produto_id, quantidade, valor_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return withConn(ctx, r.db, "create sale", func(conn *sql.Conn) error {
		var id int64
		err := conn.QueryRowContext(
			ctx,
			query,
			domain.DateOf(sale.SaleDate),
			nullableID(sale.CustomerID),
			nullableID(sale.ProductID),
			sale.Quantity,
			sale.TotalValue,
		).Scan(&id)
		if err != nil {
			return err
		}
		sale.ID = id
		return nil
	})
}

// List retrieves all sales, most recent first
func (r *saleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	query := saleSelect + `
		ORDER BY v.data_venda DESC, v.id DESC
	`

	return r.querySales(ctx, "list sales", query)
}

// FindByID retrieves a sale by ID. found is false when no row matches.
func (r *saleRepository) FindByID(ctx context.Context, id int64) (*domain.Sale, bool, error) {
	query := saleSelect + `
		WHERE v.id = $1
	`

	var sale domain.Sale
	found := false
	err := withConn(ctx, r.db, "find sale by ID", func(conn *sql.Conn) error {
		var err error
		sale, err = scanSale(conn.QueryRowContext(ctx, query, id))
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

	return &sale, true, nil
}

// Update overwrites the stored columns of a sale. The denormalized names are
// ignored. Updating a missing ID is a no-op.
func (r *saleRepository) Update(ctx context.Context, sale domain.Sale) error {
	query := `
		UPDATE vendas
		SET data_venda = $1, cliente_id = $2, produto_id = $3, quantidade = $4, valor_total = $5
		WHERE id = $6
	`

	return withConn(ctx, r.db, "update sale", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(
			ctx,
			query,
			domain.DateOf(sale.SaleDate),
			nullableID(sale.CustomerID),
			nullableID(sale.ProductID),
			sale.Quantity,
			sale.TotalValue,
			sale.ID,
		)
		return err
	})
}

// Delete removes a sale. Deleting a missing ID is a no-op.
func (r *saleRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM vendas WHERE id = $1`

	return withConn(ctx, r.db, "delete sale", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, query, id)
		return err
	})
}

// FindByDateRange retrieves the sales dated within [start, end], most recent first
func (r *saleRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Sale, error) {
	query := saleSelect + `
		WHERE v.data_venda BETWEEN $1 AND $2
		ORDER BY v.data_venda DESC, v.id DESC
	`

	return r.querySales(ctx, "find sales by date range", query, domain.DateOf(start), domain.DateOf(end))
}

// FindByCustomer retrieves all sales of one customer, most recent first
func (r *saleRepository) FindByCustomer(ctx context.Context, customerID int64) ([]domain.Sale, error) {
	query := saleSelect + `
		WHERE v.cliente_id = $1
		ORDER BY v.data_venda DESC, v.id DESC
	`

	return r.querySales(ctx, "find sales by customer", query, customerID)
}

// MonthlyTotals sums sale values per calendar month
func (r *saleRepository) MonthlyTotals(ctx context.Context) (domain.MonthlyTotals, error) {
	query := `
		SELECT to_char(data_venda, 'YYYY-MM') AS mes, SUM(valor_total)::float8 AS total
		FROM vendas
		GROUP BY mes
		ORDER BY mes
	`

	return r.queryMonthlyTotals(ctx, "sum sales by month", query)
}

// MonthlyTotalsRecent sums sale values per calendar month, counting only sales
// dated on or after the day monthsBack months before today
func (r *saleRepository) MonthlyTotalsRecent(ctx context.Context, monthsBack int) (domain.MonthlyTotals, error) {
	query := `
		SELECT to_char(data_venda, 'YYYY-MM') AS mes, SUM(valor_total)::float8 AS total
		FROM vendas
		WHERE data_venda >= $1
		GROUP BY mes
		ORDER BY mes
	`

	cutoff := domain.MonthsBefore(r.now(), monthsBack)

	return r.queryMonthlyTotals(ctx, "sum recent sales by month", query, cutoff)
}

// TotalRevenue sums the value of every sale. An empty table yields zero.
func (r *saleRepository) TotalRevenue(ctx context.Context) (float64, error) {
	query := `SELECT SUM(valor_total)::float8 FROM vendas`

	var total sql.NullFloat64
	err := withConn(ctx, r.db, "sum sales", func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, query).Scan(&total)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	return total.Float64, nil
}

func (r *saleRepository) querySales(ctx context.Context, op, query string, args ...any) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := withConn(ctx, r.db, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		sales = []domain.Sale{}
		for rows.Next() {
			sale, err := scanSale(rows)
			if err != nil {
				return err
			}
			sales = append(sales, sale)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return sales, nil
}

func (r *saleRepository) queryMonthlyTotals(ctx context.Context, op, query string, args ...any) (domain.MonthlyTotals, error) {
	totals := domain.MonthlyTotals{}
	err := withConn(ctx, r.db, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				month string
				total float64
			)
			if err := rows.Scan(&month, &total); err != nil {
				return err
			}
			totals[month] = total
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return totals, nil
}

// nullableID stores a zero reference as NULL, mirroring how a removed
// customer or product reads back
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func scanSale(row rowScanner) (domain.Sale, error) {
	var (
		id           int64
		saleDate     time.Time
		customerID   sql.NullInt64
		productID    sql.NullInt64
		quantity     int
		totalValue   float64
		customerName sql.NullString
		productName  sql.NullString
	)
	err := row.Scan(
		&id,
		&saleDate,
		&customerID,
		&productID,
		&quantity,
		&totalValue,
		&customerName,
		&productName,
	)
	if err != nil {
		return domain.Sale{}, err
	}

	return domain.Sale{
		ID:           id,
		SaleDate:     domain.DateOf(saleDate),
		CustomerID:   customerID.Int64,
		ProductID:    productID.Int64,
		Quantity:     quantity,
		TotalValue:   totalValue,
		CustomerName: customerName.String,
		ProductName:  productName.String,
	}, nil
}
