package constant

import "time"

const (
	CatalogEntriesKey   = "catalog:%s:entries"
	TurnoSubmitLock     = "turno:lock:%s:%s"
	TurnoLocatedSession = "turno:session:%s"
)

const (
	CatalogDefaultTTL      = 10 * time.Minute
	TurnoSubmitLockTTL     = 30 * time.Second
	TurnoLocatedSessionTTL = 30 * time.Minute
)
