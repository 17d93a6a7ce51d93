package domain_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AddUpdateRemoveScenario(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	itemA := domain.Item{ID: 1, Name: "Pad Thai", UnitPrice: dec("180")}

	ledger.AddItem(itemA, 1)
	assertTotals(t, ledger.Totals(), "180", "12.6", "30", "222.6")
	assert.Equal(t, 1, ledger.ItemCount())

	ledger.AddItem(itemA, 1)
	require.Len(t, ledger.Lines(), 1)
	assert.Equal(t, 2, ledger.ItemQuantity(itemA.ID))
	assertTotals(t, ledger.Totals(), "360", "25.2", "30", "415.2")

	ledger.UpdateQuantity(itemA.ID, 0)
	assert.Empty(t, ledger.Lines())
	assert.Equal(t, 0, ledger.ItemCount())
	assertTotals(t, ledger.Totals(), "0", "0", "0", "0")
}

func TestLedger_ModifierSubtotal(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)

	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("100")}, 1)
	ledger.AddItem(domain.Item{
		ID:        2,
		UnitPrice: dec("100"),
		Modifiers: []domain.SelectedModifier{
			{GroupID: 10, GroupName: "Size", OptionID: 11, OptionName: "Large", PriceAdjustment: dec("20")},
		},
	}, 1)

	// 100*1 + (100+20)*1
	assertTotals(t, ledger.Totals(), "220", "15.4", "30", "265.4")
}

func TestLedger_TaxRounding(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		wantTax string
	}{
		{name: "whole amount", price: "100.00", wantTax: "7.00"},
		{name: "rounds after multiplication", price: "99.995", wantTax: "7.00"},
		{name: "half cent rounds up", price: "0.5", wantTax: "0.04"},
		{name: "below half cent rounds down", price: "0.07", wantTax: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
			ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec(tt.price)}, 1)

			assertDecimal(t, tt.wantTax, ledger.Totals().Tax)
		})
	}
}

func TestLedger_DeliveryFeeBoundary(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	assertDecimal(t, "0", ledger.Totals().DeliveryFee)

	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("10")}, 1)
	ledger.AddItem(domain.Item{ID: 2, UnitPrice: dec("20")}, 3)
	assertDecimal(t, "30", ledger.Totals().DeliveryFee)

	ledger.RemoveItem(1)
	assertDecimal(t, "30", ledger.Totals().DeliveryFee)

	ledger.RemoveItem(2)
	assertDecimal(t, "0", ledger.Totals().DeliveryFee)
	assertDecimal(t, "0", ledger.Totals().Total)
	assert.True(t, ledger.IsEmpty())
}

func TestLedger_RemoveItemIsIdempotent(t *testing.T) {
	once := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	twice := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)

	for _, l := range []*domain.Ledger{once, twice} {
		l.AddItem(domain.Item{ID: 1, UnitPrice: dec("5")}, 2)
		l.AddItem(domain.Item{ID: 2, UnitPrice: dec("7")}, 1)
	}

	once.RemoveItem(1)
	twice.RemoveItem(1)
	twice.RemoveItem(1)

	assert.Empty(t, cmp.Diff(once.Lines(), twice.Lines()))
	assert.Equal(t, once.Totals(), twice.Totals())
}

func TestLedger_NoOps(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("5")}, 1)
	before := ledger.Lines()

	ledger.UpdateQuantity(99, 4)
	ledger.RemoveItem(99)
	ledger.RemoveLine("99")
	ledger.UpdateLine("99", 3)
	ledger.AddItem(domain.Item{ID: 2, UnitPrice: dec("5")}, 0)
	ledger.AddItem(domain.Item{ID: 2, UnitPrice: dec("5")}, -3)

	assert.Empty(t, cmp.Diff(before, ledger.Lines()))
	assert.False(t, ledger.IsInCart(99))
	assert.False(t, ledger.IsInCart(2))
	assert.Equal(t, 0, ledger.ItemQuantity(99))
}

func TestLedger_UpdateQuantityNegativeRemoves(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("5")}, 3)

	ledger.UpdateQuantity(1, -1)

	assert.False(t, ledger.IsInCart(1))
	assert.True(t, ledger.IsEmpty())
}

func TestLedger_Clear(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("5")}, 3)
	ledger.AddItem(domain.Item{ID: 2, UnitPrice: dec("8")}, 1)

	ledger.Clear()

	assert.True(t, ledger.IsEmpty())
	assertTotals(t, ledger.Totals(), "0", "0", "0", "0")
}

func TestLedger_MergeByItemIgnoresNewModifiers(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	plain := domain.Item{ID: 1, UnitPrice: dec("50")}
	extraCheese := plain
	extraCheese.Modifiers = []domain.SelectedModifier{{GroupID: 1, OptionID: 2, PriceAdjustment: dec("15")}}

	ledger.AddItem(plain, 1)
	ledger.AddItem(extraCheese, 2)

	lines := ledger.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Empty(t, lines[0].Modifiers)
	assertDecimal(t, "150", ledger.Totals().Subtotal)
}

func TestLedger_MergeByModifiersSplitsLines(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByModifiers)
	plain := domain.Item{ID: 1, UnitPrice: dec("50")}
	extraCheese := plain
	extraCheese.Modifiers = []domain.SelectedModifier{{GroupID: 1, OptionID: 2, PriceAdjustment: dec("15")}}

	ledger.AddItem(plain, 1)
	ledger.AddItem(extraCheese, 2)
	ledger.AddItem(extraCheese, 1)

	lines := ledger.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].Key)
	assert.Equal(t, "1:2", lines[1].Key)
	assert.Equal(t, 3, lines[1].Quantity)
	assert.Equal(t, 4, ledger.ItemQuantity(1))
	// 50 + (50+15)*3
	assertDecimal(t, "245", ledger.Totals().Subtotal)

	// item-level update targets the first line of the item
	ledger.UpdateQuantity(1, 5)
	assert.Equal(t, 5, ledger.Lines()[0].Quantity)
	assert.Equal(t, 3, ledger.Lines()[1].Quantity)

	ledger.UpdateLine("1:2", 1)
	assert.Equal(t, 6, ledger.ItemQuantity(1))

	ledger.RemoveLine("1")
	require.Len(t, ledger.Lines(), 1)
	assert.Equal(t, "1:2", ledger.Lines()[0].Key)

	ledger.AddItem(plain, 1)
	ledger.RemoveItem(1)
	assert.True(t, ledger.IsEmpty())
}

func TestLedger_LinesAreCopies(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	mods := []domain.SelectedModifier{{OptionID: 1, PriceAdjustment: dec("1")}}
	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("5"), Modifiers: mods}, 1)

	mods[0].PriceAdjustment = dec("100")
	lines := ledger.Lines()
	lines[0].Quantity = 42
	lines[0].Modifiers[0].PriceAdjustment = dec("100")

	assert.Equal(t, 1, ledger.Lines()[0].Quantity)
	assertDecimal(t, "6", ledger.Totals().Subtotal)
	assertDecimal(t, "1", ledger.Lines()[0].Modifiers[0].PriceAdjustment)
}

func TestLedger_Restore(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	ledger.AddItem(domain.Item{ID: 9, UnitPrice: dec("1")}, 1)

	ledger.Restore([]domain.Line{
		{Item: domain.Item{ID: 1, UnitPrice: dec("10")}, Quantity: 2},
		{Item: domain.Item{ID: 2, UnitPrice: dec("5")}, Quantity: 0},
		{Item: domain.Item{ID: 1, UnitPrice: dec("10")}, Quantity: 1},
	})

	lines := ledger.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].Key)
	assert.Equal(t, 3, lines[0].Quantity)
	assertTotals(t, ledger.Totals(), "30", "2.1", "30", "62.1")
}

func TestLedger_CustomPricing(t *testing.T) {
	pricing := domain.Pricing{TaxRate: dec("0.1"), DeliveryFee: dec("0"), Currency: domain.DefaultCurrency}
	ledger := domain.NewLedger(pricing, domain.MergeByItem)

	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("12.34")}, 1)

	assertTotals(t, ledger.Totals(), "12.34", "1.23", "0", "13.57")
	assert.Equal(t, "THB", ledger.Totals().Currency.String())
}

func TestTotals_Amount(t *testing.T) {
	ledger := domain.NewLedger(domain.DefaultPricing(), domain.MergeByItem)
	ledger.AddItem(domain.Item{ID: 1, UnitPrice: dec("180")}, 1)

	totals := ledger.Totals()
	total := totals.Amount(totals.Total)

	assert.True(t, dec("222.6").Equal(total.Amount))
	assert.Equal(t, domain.DefaultCurrency, total.Currency)
	assert.Equal(t, "THB 222.60", total.String())
	assert.Equal(t, "THB 0.00", totals.Amount(decimal.Zero).String())
}

func TestLedger_RandomOperationsKeepInvariants(t *testing.T) {
	for _, policy := range []domain.MergePolicy{domain.MergeByItem, domain.MergeByModifiers} {
		t.Run(policy.String(), func(t *testing.T) {
			faker := gofakeit.New(42)
			ledger := domain.NewLedger(domain.DefaultPricing(), policy)

			for range 500 {
				itemID := int64(faker.Number(1, 8))

				switch faker.Number(0, 5) {
				case 0, 1:
					ledger.AddItem(randomItem(faker, itemID), faker.Number(1, 4))
				case 2:
					ledger.UpdateQuantity(itemID, faker.Number(-1, 6))
				case 3:
					ledger.RemoveItem(itemID)
				case 4:
					lines := ledger.Lines()
					if len(lines) > 0 {
						ledger.UpdateLine(lines[faker.Number(0, len(lines)-1)].Key, faker.Number(0, 3))
					}
				case 5:
					if faker.Number(0, 10) == 0 {
						ledger.Clear()
					}
				}

				assertInvariants(t, ledger)
			}
		})
	}
}

func assertInvariants(t *testing.T, ledger *domain.Ledger) {
	t.Helper()

	lines := ledger.Lines()
	var count int
	for _, line := range lines {
		require.GreaterOrEqual(t, line.Quantity, 1)
		count += line.Quantity
	}
	require.Equal(t, count, ledger.ItemCount())

	totals := ledger.Totals()
	fromScratch := domain.ComputeTotals(lines, ledger.Pricing())
	require.True(t, fromScratch.Subtotal.Equal(totals.Subtotal))
	require.True(t, totals.Tax.Equal(totals.Subtotal.Mul(domain.DefaultTaxRate).Round(2)))
	require.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Add(totals.DeliveryFee)))

	if len(lines) == 0 {
		require.True(t, totals.DeliveryFee.IsZero())
	} else {
		require.True(t, totals.DeliveryFee.Equal(domain.DefaultDeliveryFee))
	}
}

func randomItem(faker *gofakeit.Faker, id int64) domain.Item {
	item := domain.Item{
		ID:        id,
		Name:      faker.Dessert(),
		UnitPrice: decimal.NewFromFloat(faker.Price(1, 300)),
	}

	for i := range faker.Number(0, 2) {
		item.Modifiers = append(item.Modifiers, domain.SelectedModifier{
			GroupID:         int64(i + 1),
			OptionID:        int64(faker.Number(1, 3)),
			PriceAdjustment: decimal.NewFromInt(int64(faker.Number(0, 40))),
		})
	}

	return item
}

func assertTotals(t *testing.T, totals domain.Totals, subtotal, tax, deliveryFee, total string) {
	t.Helper()

	assertDecimal(t, subtotal, totals.Subtotal)
	assertDecimal(t, tax, totals.Tax)
	assertDecimal(t, deliveryFee, totals.DeliveryFee)
	assertDecimal(t, total, totals.Total)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
