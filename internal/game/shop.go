package game

// Buy purchases one unit of a listed item. Stock is only checked, never
// decremented; the shop restocks between visits.
func Buy(p Player, c *Catalog, name string) (Player, bool) {
	e, ok := c.ShopEntry(name)
	if !ok || e.Stock <= 0 || p.Gold < e.Price {
		return p, false
	}
	inv := make([]string, 0, len(p.Inventory)+1)
	inv = append(inv, p.Inventory...)
	p.Inventory = append(inv, name)
	p.Gold -= e.Price
	return p, true
}

// Sell removes one copy from the inventory for half the shop price, or a
// flat fallback for items the shop does not list.
func Sell(p Player, c *Catalog, name string) (Player, bool) {
	inv, ok := removeOne(p.Inventory, name)
	if !ok {
		return p, false
	}
	price := c.Rules.SellFallback
	if e, listed := c.ShopEntry(name); listed {
		price = e.Price / 2
	}
	p.Inventory = inv
	p.Gold += price
	return p, true
}
