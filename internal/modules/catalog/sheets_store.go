// README: Catalog store backed by Google Sheets (Places, Routes, RoutePrices worksheets).
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"
)

// Worksheet layouts (header row in row 1):
//
//	Places:      PlaceID | Title | Address | Lat | Lng | Aliases
//	Routes:      RouteID | FromTitle | ToTitle | FromAddress | ToAddress |
//	             Title | GroupID | FromLat | FromLng | ToLat | ToLng | Key
//	RoutePrices: PriceID | RouteID | Label | Min | Max | Total | PricePerPerson
const (
	placesCols = "A:F"
	routesCols = "A:L"
	pricesCols = "A:G"
)

type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	placesSheet   string
	routesSheet   string
	pricesSheet   string
	timeout       time.Duration

	sheetIDs map[string]int64
}

func NewSheetsStore(svc *sheets.Service, spreadsheetID, placesSheet, routesSheet, pricesSheet string, timeout time.Duration) *SheetsStore {
	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		placesSheet:   placesSheet,
		routesSheet:   routesSheet,
		pricesSheet:   pricesSheet,
		timeout:       timeout,
	}
}

func (s *SheetsStore) LoadAll(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	placeRows, err := s.readRows(ctx, s.placesSheet, placesCols)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read places: %w", err)
	}
	routeRows, err := s.readRows(ctx, s.routesSheet, routesCols)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read routes: %w", err)
	}
	priceRows, err := s.readRows(ctx, s.pricesSheet, pricesCols)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read prices: %w", err)
	}

	bandsByRoute := make(map[string][]PriceBand)
	for _, row := range priceRows {
		band := PriceBand{
			ID:      cellString(row, 0),
			RouteID: cellString(row, 1),
			Label:   cellString(row, 2),
			Min:     cellInt(row, 3),
			Max:     cellIntPtr(row, 4),
		}
		if band.RouteID == "" {
			continue
		}
		if total, ok := cellInt64(row, 5); ok {
			band.Amount = Amount{Mode: AmountTotal, Value: total}
		} else if ppp, ok := cellInt64(row, 6); ok {
			band.Amount = Amount{Mode: AmountPerPerson, Value: ppp}
		}
		bandsByRoute[band.RouteID] = append(bandsByRoute[band.RouteID], band)
	}

	snap := Snapshot{}
	for _, row := range placeRows {
		snap.Places = append(snap.Places, Place{
			ID:      cellString(row, 0),
			Title:   cellString(row, 1),
			Address: cellString(row, 2),
			Lat:     cellFloatPtr(row, 3),
			Lng:     cellFloatPtr(row, 4),
			Aliases: cellString(row, 5),
		})
	}
	for _, row := range routeRows {
		r := Route{
			ID:          cellString(row, 0),
			FromTitle:   cellString(row, 1),
			ToTitle:     cellString(row, 2),
			FromAddress: cellString(row, 3),
			ToAddress:   cellString(row, 4),
			Title:       cellString(row, 5),
			GroupID:     cellString(row, 6),
			FromLat:     cellFloatPtr(row, 7),
			FromLng:     cellFloatPtr(row, 8),
			ToLat:       cellFloatPtr(row, 9),
			ToLng:       cellFloatPtr(row, 10),
		}
		r.Bands = bandsByRoute[r.ID]
		snap.Routes = append(snap.Routes, r)
	}
	return snap, nil
}

func (s *SheetsStore) AppendPlace(ctx context.Context, p Place) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	row := []interface{}{p.ID, p.Title, p.Address, floatCell(p.Lat), floatCell(p.Lng), p.Aliases}
	return s.appendRow(ctx, s.placesSheet, row)
}

func (s *SheetsStore) AppendRoute(ctx context.Context, r Route) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := []interface{}{
		r.ID, r.FromTitle, r.ToTitle, r.FromAddress, r.ToAddress,
		r.Title, r.GroupID,
		floatCell(r.FromLat), floatCell(r.FromLng), floatCell(r.ToLat), floatCell(r.ToLng),
		r.Key(),
	}
	if err := s.appendRow(ctx, s.routesSheet, row); err != nil {
		return err
	}

	// Band rows follow the route row; there is no batch transaction.
	for _, b := range r.Bands {
		total, ppp := "", ""
		switch b.Amount.Mode {
		case AmountTotal:
			total = strconv.FormatInt(b.Amount.Value, 10)
		case AmountPerPerson:
			ppp = strconv.FormatInt(b.Amount.Value, 10)
		}
		maxCell := ""
		if b.Max != nil {
			maxCell = strconv.Itoa(*b.Max)
		}
		bandRow := []interface{}{b.ID, b.RouteID, b.Label, b.Min, maxCell, total, ppp}
		if err := s.appendRow(ctx, s.pricesSheet, bandRow); err != nil {
			return err
		}
	}
	return nil
}

func (s *SheetsStore) DeleteRoute(ctx context.Context, routeID string) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	routeRows, err := s.deleteRowsByKey(ctx, s.routesSheet, routesCols, 0, routeID)
	if err != nil {
		return 0, 0, err
	}
	priceRows, err := s.deleteRowsByKey(ctx, s.pricesSheet, pricesCols, 1, routeID)
	if err != nil {
		return routeRows, 0, err
	}
	return routeRows, priceRows, nil
}

func (s *SheetsStore) DeletePlace(ctx context.Context, placeID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.deleteRowsByKey(ctx, s.placesSheet, placesCols, 0, placeID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SheetsStore) UpdateRouteGeo(ctx context.Context, routeID string, upd GeoUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rowIdx, err := s.findRowByKey(ctx, s.routesSheet, routesCols, 0, routeID)
	if err != nil {
		return err
	}

	// One single-cell write per provided field, column letters per layout.
	cells := []struct {
		col string
		val interface{}
		set bool
	}{
		{"D", deref(upd.FromAddress), upd.FromAddress != nil},
		{"E", deref(upd.ToAddress), upd.ToAddress != nil},
		{"H", derefF(upd.FromLat), upd.FromLat != nil},
		{"I", derefF(upd.FromLng), upd.FromLng != nil},
		{"J", derefF(upd.ToLat), upd.ToLat != nil},
		{"K", derefF(upd.ToLng), upd.ToLng != nil},
	}
	for _, c := range cells {
		if !c.set {
			continue
		}
		if err := s.updateCell(ctx, s.routesSheet, c.col, rowIdx, c.val); err != nil {
			return err
		}
	}
	return nil
}

func (s *SheetsStore) UpdatePlaceCoords(ctx context.Context, title string, lat, lng float64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rowIdx, err := s.findRowByKey(ctx, s.placesSheet, placesCols, 1, title)
	if err != nil {
		return err
	}
	if err := s.updateCell(ctx, s.placesSheet, "D", rowIdx, lat); err != nil {
		return err
	}
	return s.updateCell(ctx, s.placesSheet, "E", rowIdx, lng)
}

// --- sheet plumbing ---

// readRows returns data rows (the header row is skipped).
func (s *SheetsStore) readRows(ctx context.Context, sheet, cols string) ([][]interface{}, error) {
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}
	return resp.Values[1:], nil
}

func (s *SheetsStore) appendRow(ctx context.Context, sheet string, row []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, sheet+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (s *SheetsStore) updateCell(ctx context.Context, sheet, col string, rowIdx int, val interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{{val}}}
	rng := fmt.Sprintf("%s!%s%d", sheet, col, rowIdx)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// findRowByKey returns the 1-based spreadsheet row whose keyCol equals key.
func (s *SheetsStore) findRowByKey(ctx context.Context, sheet, cols string, keyCol int, key string) (int, error) {
	rows, err := s.readRows(ctx, sheet, cols)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if cellString(row, keyCol) == key {
			return i + 2, nil // +1 header, +1 one-based
		}
	}
	return 0, ErrNotFound
}

// deleteRowsByKey removes every row whose keyCol equals key, bottom-up so
// earlier deletions do not shift later indexes. Returns the count removed.
func (s *SheetsStore) deleteRowsByKey(ctx context.Context, sheet, cols string, keyCol int, key string) (int, error) {
	rows, err := s.readRows(ctx, sheet, cols)
	if err != nil {
		return 0, err
	}
	var matches []int
	for i, row := range rows {
		if cellString(row, keyCol) == key {
			matches = append(matches, i+1) // 0-based grid index incl. header
		}
	}
	if len(matches) == 0 {
		return 0, nil
	}

	sheetID, err := s.sheetID(ctx, sheet)
	if err != nil {
		return 0, err
	}
	for i := len(matches) - 1; i >= 0; i-- {
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(matches[i]),
						EndIndex:   int64(matches[i] + 1),
					},
				},
			}},
		}
		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

func (s *SheetsStore) sheetID(ctx context.Context, title string) (int64, error) {
	if id, ok := s.sheetIDs[title]; ok {
		return id, nil
	}
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	s.sheetIDs = make(map[string]int64, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
	}
	id, ok := s.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found", title)
	}
	return id, nil
}

// --- cell helpers ---

func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func cellInt(row []interface{}, i int) int {
	n, _ := strconv.Atoi(cellString(row, i))
	return n
}

func cellIntPtr(row []interface{}, i int) *int {
	s := cellString(row, i)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func cellInt64(row []interface{}, i int) (int64, bool) {
	s := cellString(row, i)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func cellFloatPtr(row []interface{}, i int) *float64 {
	s := cellString(row, i)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func deref(v *string) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefF(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
