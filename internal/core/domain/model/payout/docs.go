// Package payout models the transfer of a settlement's net amount to the
// helper's bank account.
//
//	REQUESTED --MarkSent--> SENT --MarkSucceeded--> SUCCEEDED
//	                             \--MarkFailed----> FAILED --Retry--> REQUESTED
//
// A payout is active while REQUESTED or SENT; a settlement has at most one
// active payout.
package payout
