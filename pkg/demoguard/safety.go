package demoguard

import "strings"

// DatabaseInfo describes the database a demo deployment is connected to.
// ProductionFlag is the authoritative signal, set from deployment metadata;
// Host feeds a best-effort name heuristic for the case where the metadata
// was never filled in.
type DatabaseInfo struct {
	ProductionFlag bool
	Host           string
}

var productionHostMarkers = []string{"prod", "production", "live"}

// LooksProduction reports whether the database behind a demo deployment
// appears to be a production database. The explicit flag always wins; the
// host-name check is a heuristic and only ever adds caution, never removes
// it.
func (d DatabaseInfo) LooksProduction() bool {
	if d.ProductionFlag {
		return true
	}

	host := strings.ToLower(d.Host)
	for _, marker := range productionHostMarkers {
		if strings.Contains(host, marker) {
			return true
		}
	}
	return false
}
