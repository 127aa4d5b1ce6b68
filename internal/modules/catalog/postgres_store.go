// README: Catalog store backed by PostgreSQL (places, routes, route_prices tables).
package catalog

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store against three tables mirroring the sheet
// layout:
//
//	places(id, title, address, lat, lng, aliases)
//	routes(id, group_id, from_title, to_title, from_address, to_address,
//	       from_lat, from_lng, to_lat, to_lng, title, key)
//	route_prices(id, route_id, label, min_passengers, max_passengers,
//	             total, price_per_person)
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadAll(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := s.db.Query(ctx, `
		SELECT id, title, address, lat, lng, aliases
		FROM places
		ORDER BY title`)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var p Place
		var lat, lng sql.NullFloat64
		var aliases sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &p.Address, &lat, &lng, &aliases); err != nil {
			return Snapshot{}, err
		}
		p.Lat = nullFloat(lat)
		p.Lng = nullFloat(lng)
		p.Aliases = aliases.String
		snap.Places = append(snap.Places, p)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	routeRows, err := s.db.Query(ctx, `
		SELECT id, group_id, from_title, to_title, from_address, to_address,
		       from_lat, from_lng, to_lat, to_lng, title
		FROM routes`)
	if err != nil {
		return Snapshot{}, err
	}
	defer routeRows.Close()
	byID := make(map[string]int)
	for routeRows.Next() {
		var r Route
		var fLat, fLng, tLat, tLng sql.NullFloat64
		if err := routeRows.Scan(
			&r.ID, &r.GroupID, &r.FromTitle, &r.ToTitle,
			&r.FromAddress, &r.ToAddress,
			&fLat, &fLng, &tLat, &tLng, &r.Title,
		); err != nil {
			return Snapshot{}, err
		}
		r.FromLat, r.FromLng = nullFloat(fLat), nullFloat(fLng)
		r.ToLat, r.ToLng = nullFloat(tLat), nullFloat(tLng)
		byID[r.ID] = len(snap.Routes)
		snap.Routes = append(snap.Routes, r)
	}
	if err := routeRows.Err(); err != nil {
		return Snapshot{}, err
	}

	bandRows, err := s.db.Query(ctx, `
		SELECT id, route_id, label, min_passengers, max_passengers, total, price_per_person
		FROM route_prices`)
	if err != nil {
		return Snapshot{}, err
	}
	defer bandRows.Close()
	for bandRows.Next() {
		var b PriceBand
		var max sql.NullInt64
		var total, ppp sql.NullInt64
		if err := bandRows.Scan(&b.ID, &b.RouteID, &b.Label, &b.Min, &max, &total, &ppp); err != nil {
			return Snapshot{}, err
		}
		if max.Valid {
			v := int(max.Int64)
			b.Max = &v
		}
		switch {
		case total.Valid:
			b.Amount = Amount{Mode: AmountTotal, Value: total.Int64}
		case ppp.Valid:
			b.Amount = Amount{Mode: AmountPerPerson, Value: ppp.Int64}
		}
		if idx, ok := byID[b.RouteID]; ok {
			snap.Routes[idx].Bands = append(snap.Routes[idx].Bands, b)
		}
	}
	return snap, bandRows.Err()
}

func (s *PostgresStore) AppendPlace(ctx context.Context, p Place) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO places (id, title, address, lat, lng, aliases)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Title, p.Address, p.Lat, p.Lng, p.Aliases)
	return err
}

func (s *PostgresStore) AppendRoute(ctx context.Context, r Route) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO routes (id, group_id, from_title, to_title, from_address, to_address,
		                    from_lat, from_lng, to_lat, to_lng, title, key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.GroupID, r.FromTitle, r.ToTitle, r.FromAddress, r.ToAddress,
		r.FromLat, r.FromLng, r.ToLat, r.ToLng, r.Title, r.Key())
	if err != nil {
		return err
	}
	for _, b := range r.Bands {
		var total, ppp *int64
		switch b.Amount.Mode {
		case AmountTotal:
			total = &b.Amount.Value
		case AmountPerPerson:
			ppp = &b.Amount.Value
		}
		_, err := s.db.Exec(ctx, `
			INSERT INTO route_prices (id, route_id, label, min_passengers, max_passengers, total, price_per_person)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			b.ID, b.RouteID, b.Label, b.Min, b.Max, total, ppp)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) DeleteRoute(ctx context.Context, routeID string) (int, int, error) {
	priceTag, err := s.db.Exec(ctx, `DELETE FROM route_prices WHERE route_id = $1`, routeID)
	if err != nil {
		return 0, 0, err
	}
	routeTag, err := s.db.Exec(ctx, `DELETE FROM routes WHERE id = $1`, routeID)
	if err != nil {
		return 0, int(priceTag.RowsAffected()), err
	}
	return int(routeTag.RowsAffected()), int(priceTag.RowsAffected()), nil
}

func (s *PostgresStore) DeletePlace(ctx context.Context, placeID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM places WHERE id = $1`, placeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateRouteGeo(ctx context.Context, routeID string, upd GeoUpdate) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE routes
		SET from_address = COALESCE($1, from_address),
		    to_address   = COALESCE($2, to_address),
		    from_lat     = COALESCE($3, from_lat),
		    from_lng     = COALESCE($4, from_lng),
		    to_lat       = COALESCE($5, to_lat),
		    to_lng       = COALESCE($6, to_lng)
		WHERE id = $7`,
		upd.FromAddress, upd.ToAddress,
		upd.FromLat, upd.FromLng, upd.ToLat, upd.ToLng,
		routeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePlaceCoords(ctx context.Context, title string, lat, lng float64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE places SET lat = $1, lng = $2 WHERE title = $3`,
		lat, lng, title)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
