package services

import "github.com/mrlokans/highlights-vault/internal/entities"

// OutlineParser turns an outline file into a book tree.
type OutlineParser interface {
	ParseFile(path string) (*entities.Node, error)
}
