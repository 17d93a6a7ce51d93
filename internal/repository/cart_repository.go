package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/orderup-cart/internal/db"
	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q        *db.Queries
	pool     *pgxpool.Pool
	currency currency.Unit
}

// NewCart returns a Postgres store. Lines are written in cur and rows in any
// other currency are rejected on load.
func NewCart(pool *pgxpool.Pool, cur currency.Unit) port.CartRepository {
	return &cartRepository{
		q:        db.New(pool),
		pool:     pool,
		currency: cur,
	}
}

func NewCartWithTx(tx pgx.Tx, cur currency.Unit) port.CartRepository {
	return &cartRepository{
		q:        db.New(tx),
		pool:     nil, // use provided transaction instead
		currency: cur,
	}
}

func (r *cartRepository) Load(ctx context.Context, sessionKey string) ([]domain.Line, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("sessionKey is empty")
	}

	rows, err := r.q.GetCartLines(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("q.GetCartLines: %w", err)
	}

	lines, err := r.mapGetCartLinesRowsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapGetCartLinesRowsToDomain: %w", err)
	}

	return lines, nil
}

// Save replaces all lines stored under sessionKey in one transaction.
func (r *cartRepository) Save(ctx context.Context, sessionKey string, lines []domain.Line) error {
	if sessionKey == "" {
		return fmt.Errorf("sessionKey is empty")
	}

	params := make([]db.InsertCartLineParams, 0, len(lines))
	for i, line := range lines {
		modifiers, err := marshalModifiers(line.Modifiers)
		if err != nil {
			return fmt.Errorf("marshalModifiers: %w", err)
		}

		params = append(params, db.InsertCartLineParams{
			SessionKey:  sessionKey,
			Position:    int32(i),
			ItemID:      line.ID,
			Name:        line.Name,
			Description: line.Description,
			ImageUrl:    line.ImageURL,
			UnitPrice:   line.UnitPrice,
			Currency:    r.currency.String(),
			Quantity:    int32(line.Quantity),
			Modifiers:   modifiers,
		})
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if _, err := q.DeleteCartLines(ctx, sessionKey); err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteCartLines: %w", err)
		}

		for _, p := range params {
			if err := q.InsertCartLine(ctx, p); err != nil {
				return struct{}{}, fmt.Errorf("q.InsertCartLine: %w", err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *cartRepository) Delete(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return fmt.Errorf("sessionKey is empty")
	}

	if _, err := r.q.DeleteCartLines(ctx, sessionKey); err != nil {
		return fmt.Errorf("q.DeleteCartLines: %w", err)
	}

	return nil
}

func (r *cartRepository) mapGetCartLinesRowToDomain(row db.GetCartLinesRow) (domain.Line, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Line{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}
	if parsedCurrency != r.currency {
		return domain.Line{}, fmt.Errorf("currency[%s] does not match store currency[%s]", parsedCurrency, r.currency)
	}

	modifiers, err := unmarshalModifiers(row.Modifiers)
	if err != nil {
		return domain.Line{}, fmt.Errorf("unmarshalModifiers: %w", err)
	}

	return domain.Line{
		Item: domain.Item{
			ID:          row.ItemID,
			Name:        row.Name,
			Description: row.Description,
			ImageURL:    row.ImageUrl,
			UnitPrice:   row.UnitPrice,
			Modifiers:   modifiers,
		},
		Quantity: int(row.Quantity),
	}, nil
}

func (r *cartRepository) mapGetCartLinesRowsToDomain(rows []db.GetCartLinesRow) ([]domain.Line, error) {
	var lines []domain.Line

	for _, row := range rows {
		line, err := r.mapGetCartLinesRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartLinesRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}
