package statemachine

import (
	"campus-food-api/models"
)

// Transition defines a valid state change and the role that may perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.Role
}

// validTransitions is the authoritative state machine definition.
// The lifecycle is strictly linear: placed → accepted → delivered.
// There is no backward arc and no skip; a cancelled state would be
// added here, reachable from placed only.
var validTransitions = []Transition{
	{From: models.StatusPlaced, To: models.StatusAccepted, Actor: models.RoleVendor},
	{From: models.StatusAccepted, To: models.StatusDelivered, Actor: models.RoleDelivery},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.Role
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// NextStates returns all valid next states from a given state
func NextStates(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition reports whether a given role can move an order from one
// state to another. Re-applying an already-applied transition is a
// failure, not a no-op: transitions are strict so a duplicate acceptance
// is never mistaken for a fresh acceptance event downstream.
func CanTransition(from, to models.OrderStatus, actor models.Role) bool {
	return transitionMap[transitionKey{From: from, To: to, Actor: actor}]
}

// Describe renders the transition failure for error messages, naming the
// current state so the caller can reconcile.
func Describe(from models.OrderStatus) string {
	nexts := NextStates(from)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// All returns the full state machine for documentation
func All() []Transition {
	return validTransitions
}
