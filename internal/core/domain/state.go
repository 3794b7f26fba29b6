package domain

// State is the persisted journal: the cart in progress and the ledger.
type State struct {
	Cart  []CartLine `json:"cart"`
	Sales []Sale     `json:"sales"`
}

func EmptyState() State {
	return State{
		Cart:  []CartLine{},
		Sales: []Sale{},
	}
}
