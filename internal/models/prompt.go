package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Prompt struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty" db:"project_id"`
	Name           string     `json:"name" db:"name"`
	CurrentVersion int        `json:"current_version" db:"current_version"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// PromptVersion is an immutable snapshot of a prompt's template/model pairing.
// Versions are only ever appended; correcting a mistake means a new version.
type PromptVersion struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PromptID      uuid.UUID       `json:"prompt_id" db:"prompt_id"`
	VersionNumber int             `json:"version_number" db:"version_number"`
	Template      string          `json:"template" db:"template"`
	Model         string          `json:"model" db:"model"`
	CommitMessage string          `json:"commit_message" db:"commit_message"`
	Variables     json.RawMessage `json:"variables" db:"variables"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
