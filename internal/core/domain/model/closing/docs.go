// Package closing models the helper's closing report and its review.
//
//	submitted --Approve--> approved
//	submitted --Reject---> rejected
//
// The submission estimate and the approval snapshot are frozen values and
// are never recomputed after they are stored.
package closing
