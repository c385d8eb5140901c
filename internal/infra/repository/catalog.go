package repository

import (
	"context"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/infra"
)

// CatalogRepository reads the location and add-on reference tables owned by
// the catalog provider. The core never writes them.
type CatalogRepository struct {
	db infra.DBTX
}

func NewCatalogRepository(db infra.DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Load(ctx context.Context) (catalog.Catalog, error) {
	locations, err := r.loadLocations(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}
	extras, err := r.loadExtras(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.New(locations, extras), nil
}

func (r *CatalogRepository) loadLocations(ctx context.Context) ([]catalog.Location, error) {
	rows, err := r.db.Query(ctx, `SELECT name, surcharge_cents FROM locations ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load locations", err)
	}
	defer rows.Close()

	var locations []catalog.Location
	for rows.Next() {
		var l catalog.Location
		if err := rows.Scan(&l.Name, &l.SurchargeCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan location row", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate location rows", err)
	}
	return locations, nil
}

func (r *CatalogRepository) loadExtras(ctx context.Context) ([]catalog.Extra, error) {
	rows, err := r.db.Query(ctx, `SELECT name, unit_price_cents, billing_unit FROM extras ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load extras", err)
	}
	defer rows.Close()

	var extras []catalog.Extra
	for rows.Next() {
		var e catalog.Extra
		if err := rows.Scan(&e.Name, &e.UnitPriceCents, &e.BillingUnit); err != nil {
			return nil, infra.WrapRepoErr("failed to scan extra row", err)
		}
		extras = append(extras, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate extra rows", err)
	}
	return extras, nil
}
