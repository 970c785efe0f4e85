package core

import "github.com/google/uuid"

// IdentifierAquireNewID returns a fresh random identifier for a loaded asset.
func IdentifierAquireNewID() uuid.UUID {
	return uuid.New()
}

// IdentifierShort is the first block of the identifier, used in log lines.
func IdentifierShort(id uuid.UUID) string {
	return id.String()[:8]
}
