package skill

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	Category  string
	Aliases   []string
	CreatedAt time.Time
}
