package domain

// Projection is lot state derived purely from an event stream.
type Projection struct {
	Status   LotStatus
	Quantity int
}

// Replay folds an ordered event stream into the lot state it implies.
// Quantity is the running sum of deltas; status follows the last
// state-changing action. A terminal event retires the remaining stock
// (its delta is the negated quantity), so terminal projections carry
// quantity zero.
//
// The stored lot row is written from this projection on every mutation,
// which keeps the cached state reconstructible from the log by
// construction.
func Replay(events []Event) Projection {
	p := Projection{Status: StatusAvailable}
	for _, ev := range events {
		p.Quantity += ev.QuantityDelta
		switch ev.Action {
		case ActionAdded, ActionQuantityAdjusted:
			p.Status = StatusAvailable
		case ActionConsumed:
			p.Status = StatusConsumed
		case ActionExpired:
			p.Status = StatusExpired
		case ActionRemoved:
			p.Status = StatusRemoved
		}
	}
	return p
}
