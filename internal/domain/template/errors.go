package template

import "errors"

var (
	// ErrTemplateNotFound indicates the template doesn't exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateInUse indicates the template is bound to at least one contract.
	ErrTemplateInUse = errors.New("template in use by existing contracts")
	// ErrTemplateArchived indicates an archived template cannot generate contracts.
	ErrTemplateArchived = errors.New("template is archived")
	// ErrInvalidInput indicates invalid input for template operations.
	ErrInvalidInput = errors.New("invalid template input")
)
