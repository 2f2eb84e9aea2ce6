package order

import "inventory.GO/model/entity"

// Flow is a one-way status graph. Entering a status listed in effects runs its ledger
// effect; the order's own status update guards that it runs once.
type Flow[S ~string] struct {
	edges   map[S][]S
	effects map[S]bool
}

// Edge is one allowed status change.
type Edge[S ~string] struct {
	From, To S
}

func NewFlow[S ~string](edges []Edge[S], effectful ...S) Flow[S] {
	f := Flow[S]{edges: make(map[S][]S), effects: make(map[S]bool)}
	for _, e := range edges {
		f.edges[e.From] = append(f.edges[e.From], e.To)
	}
	for _, s := range effectful {
		f.effects[s] = true
	}
	return f
}

// Allows reports whether from -> to is an edge.
func (f Flow[S]) Allows(from, to S) bool {
	for _, s := range f.edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Fires reports whether entering to from a different status runs a ledger effect.
func (f Flow[S]) Fires(from, to S) bool {
	return from != to && f.effects[to]
}

// Check validates a requested change. Re-saving the current status is a no-op (false, nil);
// an undefined edge is an *entity.TransitionError.
func (f Flow[S]) Check(from, to S) (bool, error) {
	if from == to {
		return false, nil
	}
	if !f.Allows(from, to) {
		return false, &entity.TransitionError{From: string(from), To: string(to)}
	}
	return true, nil
}

// PurchaseFlow: Draft -> Submitted -> Received, Draft may skip straight to Received.
var PurchaseFlow = NewFlow([]Edge[entity.PurchaseOrderStatus]{
	{From: entity.PurchaseOrderDraft, To: entity.PurchaseOrderSubmitted},
	{From: entity.PurchaseOrderDraft, To: entity.PurchaseOrderReceived},
	{From: entity.PurchaseOrderSubmitted, To: entity.PurchaseOrderReceived},
}, entity.PurchaseOrderReceived)

// SalesFlow: Pending -> Fulfilled, terminal.
var SalesFlow = NewFlow([]Edge[entity.SalesOrderStatus]{
	{From: entity.SalesOrderPending, To: entity.SalesOrderFulfilled},
}, entity.SalesOrderFulfilled)
