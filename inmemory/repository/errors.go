package repository

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/query"
)

var (
	ErrItemNotFound      = errors.New("repository: item not found")
	ErrNamedItemNotFound = errors.New("repository: named item not found")
)

// ItemNotFoundError describes a strict-mode miss. Exactly one of Item, Name
// or Criteria identifies what was looked up.
type ItemNotFoundError struct {
	Item     any
	Name     string
	Criteria query.Criteria
	lookup   lookupKind
}

type lookupKind int

const (
	lookupItem lookupKind = iota
	lookupName
	lookupCriteria
)

func itemNotFound(item any) *ItemNotFoundError {
	return &ItemNotFoundError{Item: item, lookup: lookupItem}
}

func namedItemNotFound(name string) *ItemNotFoundError {
	return &ItemNotFoundError{Name: name, lookup: lookupName}
}

func criteriaNotFound(criteria query.Criteria) *ItemNotFoundError {
	return &ItemNotFoundError{Criteria: criteria, lookup: lookupCriteria}
}

func (e *ItemNotFoundError) Error() string {
	switch e.lookup {
	case lookupName:
		return fmt.Sprintf("repository: named item \"%s\" does not exist in data storage", e.Name)
	case lookupCriteria:
		return fmt.Sprintf("repository: no item matches criteria %s", e.Criteria)
	}
	return fmt.Sprintf("repository: item \"%v\" does not exist in data storage", e.Item)
}

func (e *ItemNotFoundError) Is(target error) bool {
	if target == ErrItemNotFound {
		return true
	}
	return target == ErrNamedItemNotFound && e.lookup == lookupName
}
