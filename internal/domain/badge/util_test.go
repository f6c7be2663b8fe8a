package badge

import (
	"database/sql"
	"time"
)

func sqlNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Valid: true, Time: t.UTC()}
}
