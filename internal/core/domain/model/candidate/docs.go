// Package candidate models helper applications to an order.
//
// A candidate is active while applied or selected. An order holds at most
// MaxActive active candidates; the cap is enforced by the registry under a
// row lock on the order, CheckCapacity is the pure rule it applies.
package candidate
