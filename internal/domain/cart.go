package domain

import (
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type SelectedModifier struct {
	GroupID         int64
	GroupName       string
	OptionID        int64
	OptionName      string
	PriceAdjustment decimal.Decimal
}

// Item describes a menu item as it is added to the cart.
type Item struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	UnitPrice   decimal.Decimal
	Modifiers   []SelectedModifier
}

type Line struct {
	Item

	Key      string
	Quantity int
}

// UnitTotal is the price of one unit including its modifiers.
func (l Line) UnitTotal() decimal.Decimal {
	total := l.UnitPrice
	for _, m := range l.Modifiers {
		total = total.Add(m.PriceAdjustment)
	}
	return total
}

func (l Line) Total() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	Currency    currency.Unit
}

// Amount pairs one of the totals with the cart currency.
func (t Totals) Amount(d decimal.Decimal) Money {
	return Money{Amount: d, Currency: t.Currency}
}

// ComputeTotals derives order totals from scratch.
func ComputeTotals(lines []Line, pricing Pricing) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}

	deliveryFee := decimal.Zero
	if len(lines) > 0 {
		deliveryFee = pricing.DeliveryFee
	}

	tax := Round2(subtotal.Mul(pricing.TaxRate))

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Total:       subtotal.Add(tax).Add(deliveryFee),
		Currency:    pricing.Currency,
	}
}

// Ledger is the cart of one session. Totals are recomputed by every mutation,
// so they always agree with the lines. A Ledger is not safe for concurrent use.
type Ledger struct {
	pricing Pricing
	policy  MergePolicy
	lines   []Line
	totals  Totals
}

func NewLedger(pricing Pricing, policy MergePolicy) *Ledger {
	l := &Ledger{
		pricing: pricing,
		policy:  policy,
	}
	l.recalc()
	return l
}

// AddItem adds quantity units of item. If a line with the same key exists its
// quantity grows, otherwise a new line is appended. Quantities below 1 are ignored.
func (l *Ledger) AddItem(item Item, quantity int) {
	l.add(item, quantity)
	l.recalc()
}

// UpdateQuantity sets the quantity of the item's first line. A quantity of 0 or
// less removes every line of the item. Unknown items are ignored.
func (l *Ledger) UpdateQuantity(itemID int64, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(itemID)
		return
	}

	for i := range l.lines {
		if l.lines[i].ID == itemID {
			l.lines[i].Quantity = quantity
			break
		}
	}
	l.recalc()
}

// UpdateLine is UpdateQuantity addressed by line key.
func (l *Ledger) UpdateLine(key string, quantity int) {
	if quantity <= 0 {
		l.RemoveLine(key)
		return
	}

	if i := l.indexOf(key); i >= 0 {
		l.lines[i].Quantity = quantity
	}
	l.recalc()
}

func (l *Ledger) RemoveItem(itemID int64) {
	l.lines = slices.DeleteFunc(l.lines, func(line Line) bool {
		return line.ID == itemID
	})
	l.recalc()
}

func (l *Ledger) RemoveLine(key string) {
	l.lines = slices.DeleteFunc(l.lines, func(line Line) bool {
		return line.Key == key
	})
	l.recalc()
}

func (l *Ledger) Clear() {
	l.lines = nil
	l.recalc()
}

// Restore replaces the lines with previously persisted ones. Keys are
// recomputed under the ledger's policy and lines with quantity below 1 dropped.
func (l *Ledger) Restore(lines []Line) {
	l.lines = nil
	for _, line := range lines {
		l.add(line.Item, line.Quantity)
	}
	l.recalc()
}

func (l *Ledger) IsInCart(itemID int64) bool {
	return slices.ContainsFunc(l.lines, func(line Line) bool {
		return line.ID == itemID
	})
}

// ItemQuantity sums the quantity over all lines of the item, 0 if absent.
func (l *Ledger) ItemQuantity(itemID int64) int {
	var quantity int
	for _, line := range l.lines {
		if line.ID == itemID {
			quantity += line.Quantity
		}
	}
	return quantity
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	lines := make([]Line, len(l.lines))
	for i, line := range l.lines {
		line.Modifiers = slices.Clone(line.Modifiers)
		lines[i] = line
	}
	return lines
}

func (l *Ledger) ItemCount() int {
	var count int
	for _, line := range l.lines {
		count += line.Quantity
	}
	return count
}

func (l *Ledger) Totals() Totals {
	return l.totals
}

func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}

func (l *Ledger) Pricing() Pricing {
	return l.pricing
}

func (l *Ledger) Policy() MergePolicy {
	return l.policy
}

func (l *Ledger) add(item Item, quantity int) {
	if quantity < 1 {
		return
	}

	key := l.policy.LineKey(item)
	if i := l.indexOf(key); i >= 0 {
		l.lines[i].Quantity += quantity
		return
	}

	item.Modifiers = slices.Clone(item.Modifiers)
	l.lines = append(l.lines, Line{
		Item:     item,
		Key:      key,
		Quantity: quantity,
	})
}

func (l *Ledger) indexOf(key string) int {
	return slices.IndexFunc(l.lines, func(line Line) bool {
		return line.Key == key
	})
}

func (l *Ledger) recalc() {
	l.totals = ComputeTotals(l.lines, l.pricing)
}
