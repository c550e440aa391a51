/*
Package dyndns keeps a set of existing DNS records pointed at the machine's
current public IP address.

Usage will always start with [New],
which takes the list of managed record entries and returns a *Client.
The Client polls an IP echo service on an interval and,
when the address changes,
pushes the new address to every configured record before advancing its
committed baseline.
Additional client configuration options are listed in the docs for New.
*/
package dyndns
