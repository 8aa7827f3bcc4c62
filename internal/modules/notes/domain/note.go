package domain

import (
	"fmt"
	"strings"
	"time"
)

// Note is free-form context the user attaches to their planning, surfaced
// to the service's model alongside tasks.
type Note struct {
	ID        int
	Title     string
	Body      string
	CreatedAt time.Time
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}
