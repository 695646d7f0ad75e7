// Package environment identifies the deployment the process serves
// (development, staging, production, or demo) and carries that label through
// request contexts. The demo label is load-bearing: it is the switch that
// arms the demoguard write-path firewall.
package environment
