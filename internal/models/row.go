package models

import "github.com/google/uuid"

// ProjectScoped is implemented by every row owned by a project.
type ProjectScoped interface {
	GetID() uuid.UUID
	GetProjectID() uuid.UUID
}

// Sequenced is implemented by rows whose display order is tracked through an
// explicit order_index column. The index is a plain integer; uniqueness within
// a sibling group is maintained by the sequencer, not by a database constraint.
type Sequenced interface {
	ProjectScoped
	GetOrderIndex() int
}
