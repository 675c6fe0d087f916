package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/supplymatch/backend/internal/domain"
)

// SQLiteRepository stores offer snapshots in a local sqlite database. Rows
// keep the raw catalog text plus the coarse core bucket; full signatures are
// recomputed by the classifier on read, so a lexicon update never requires a
// data migration.
type SQLiteRepository struct {
	conn *sql.DB
}

// NewSQLiteRepository opens (and if needed creates) the offers database.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLiteRepository{conn: conn}, nil
}

// Close closes the underlying connection.
func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}

func migrate(conn *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS offers (
			id            TEXT PRIMARY KEY,
			supplier_id   TEXT NOT NULL,
			name          TEXT NOT NULL,
			core_id       TEXT NOT NULL,
			price         TEXT NOT NULL,
			pack_base_qty REAL NOT NULL DEFAULT 0,
			pack_known    INTEGER NOT NULL DEFAULT 0,
			available     INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_offers_core ON offers(core_id);
		CREATE INDEX IF NOT EXISTS idx_offers_supplier ON offers(supplier_id);
	`
	if _, err := conn.Exec(query); err != nil {
		return fmt.Errorf("migrate catalog db: %w", err)
	}
	return nil
}

// Put inserts or replaces an offer row. The caller supplies the core bucket
// (normally from the classifier).
func (r *SQLiteRepository) Put(ctx context.Context, offer domain.Offer) error {
	query := `
		INSERT OR REPLACE INTO offers
			(id, supplier_id, name, core_id, price, pack_base_qty, pack_known, available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.conn.ExecContext(ctx, query,
		offer.ID,
		offer.SupplierID,
		offer.Name,
		offer.Signature.CoreID,
		offer.Price.String(),
		offer.PackBaseQty,
		boolInt(offer.PackKnown),
		boolInt(offer.Available),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return nil
}

// ListByCore returns up to limit offers in one product-core bucket, ordered
// by id for deterministic evaluation.
func (r *SQLiteRepository) ListByCore(ctx context.Context, coreID string, limit int) ([]domain.Offer, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `
		SELECT id, supplier_id, name, core_id, price, pack_base_qty, pack_known, available
		FROM offers WHERE core_id = ? ORDER BY id LIMIT ?
	`
	rows, err := r.conn.QueryContext(ctx, query, coreID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()
	return scanOffers(rows)
}

// ListActive returns every available offer.
func (r *SQLiteRepository) ListActive(ctx context.Context) ([]domain.Offer, error) {
	query := `
		SELECT id, supplier_id, name, core_id, price, pack_base_qty, pack_known, available
		FROM offers WHERE available = 1 ORDER BY id
	`
	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()
	return scanOffers(rows)
}

// GetByID returns a single offer snapshot.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := `
		SELECT id, supplier_id, name, core_id, price, pack_base_qty, pack_known, available
		FROM offers WHERE id = ?
	`
	row := r.conn.QueryRowContext(ctx, query, id)
	offer, err := scanOffer(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return &offer, nil
}

func scanOffers(rows *sql.Rows) ([]domain.Offer, error) {
	var out []domain.Offer
	for rows.Next() {
		offer, err := scanOffer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		out = append(out, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return out, nil
}

func scanOffer(scan func(...any) error) (domain.Offer, error) {
	var (
		offer     domain.Offer
		coreID    string
		price     string
		packKnown int
		available int
	)
	err := scan(&offer.ID, &offer.SupplierID, &offer.Name, &coreID,
		&price, &offer.PackBaseQty, &packKnown, &available)
	if err != nil {
		return offer, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return offer, fmt.Errorf("bad price for offer %s: %w", offer.ID, err)
	}
	offer.Price = p
	offer.PackKnown = packKnown != 0
	offer.Available = available != 0
	offer.Signature = domain.Signature{CoreID: coreID}
	return offer, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
