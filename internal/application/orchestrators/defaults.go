package orchestrators

import (
	"time"

	"github.com/google/uuid"
)

func newID(gen func() string) string {
	if gen != nil {
		return gen()
	}
	return uuid.New().String()
}

func now(clock func() time.Time) time.Time {
	if clock != nil {
		return clock()
	}
	return time.Now()
}
