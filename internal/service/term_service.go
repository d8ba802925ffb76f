package service

import (
	"fmt"
	"strings"

	"boutique/internal/repository"
)

type term[T any] interface {
	*T
	GetID() uint
	Assign(name string, description *string)
}

// TermService manages one product taxonomy table (fabrics, patterns, shapes,
// necks, lengths, sleeve lengths).
type TermService[T any, P term[T]] struct {
	repo *repository.TermRepository[T]
}

func NewTermService[T any, P term[T]](repo *repository.TermRepository[T]) *TermService[T, P] {
	return &TermService[T, P]{repo: repo}
}

func (s *TermService[T, P]) All() ([]T, error) {
	return s.repo.All()
}

func (s *TermService[T, P]) List(q repository.ListQuery) ([]T, int64, error) {
	return s.repo.List(q)
}

func (s *TermService[T, P]) Get(id uint) (*T, error) {
	return s.repo.GetByID(id)
}

func (s *TermService[T, P]) Create(name string, description *string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingFields)
	}
	var v T
	P(&v).Assign(name, description)
	if err := s.repo.Create(&v); err != nil {
		return nil, duplicate(err)
	}
	return &v, nil
}

func (s *TermService[T, P]) Update(id uint, name string, description *string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingFields)
	}
	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	P(v).Assign(name, description)
	if err := s.repo.Update(v); err != nil {
		return nil, duplicate(err)
	}
	return v, nil
}

// Delete fails with ErrProtected while any product references the term.
func (s *TermService[T, P]) Delete(id uint) error {
	return s.repo.Delete(id)
}
