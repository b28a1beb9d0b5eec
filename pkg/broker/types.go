package broker

import "github.com/shopspring/decimal"

// Account holds key account information.
type Account struct {
	Number         string
	Status         string
	Cash           decimal.Decimal
	BuyingPower    decimal.Decimal
	PortfolioValue decimal.Decimal
}

// Order is an order already known to the brokerage.
type Order struct {
	ID         string
	Symbol     string
	Side       string
	Type       string
	Status     string
	Qty        *decimal.Decimal
	Notional   *decimal.Decimal
	LimitPrice *decimal.Decimal
}
