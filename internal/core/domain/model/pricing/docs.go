// Package pricing holds the value types of settlement math: the rates in
// force, the calculator input taken from a closing report and the immutable
// snapshot an approval produces. Money is int64 in the smallest currency
// unit; rates are decimals.
package pricing
