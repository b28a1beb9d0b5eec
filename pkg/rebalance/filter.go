package rebalance

// FilterOpen drops deltas for symbols that already have an open order and
// returns the kept and the dropped ones. The open-order snapshot can be stale
// by the time orders go out, so this only narrows duplicate submissions; it
// cannot rule them out without a broker-side idempotency key.
func FilterOpen(orders []DeltaOrder, openSymbols []string) (kept, dropped []DeltaOrder) {
	open := make(map[string]struct{}, len(openSymbols))
	for _, s := range openSymbols {
		open[s] = struct{}{}
	}

	for _, o := range orders {
		if _, ok := open[o.Symbol]; ok {
			dropped = append(dropped, o)
			continue
		}
		kept = append(kept, o)
	}
	return kept, dropped
}

// Filter applies FilterOpen to both sides of a plan.
func (p Plan) Filter(openSymbols []string) (Plan, []DeltaOrder) {
	sells, droppedSells := FilterOpen(p.Sells, openSymbols)
	buys, droppedBuys := FilterOpen(p.Buys, openSymbols)
	return Plan{Sells: sells, Buys: buys}, append(droppedSells, droppedBuys...)
}
