package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"arkive/internal/model"
	"arkive/internal/repository"
)

// DepartmentService deduplicates department names into stable entities.
// Matching is case-insensitive; the first write wins on stored casing.
type DepartmentService interface {
	// FindOrCreate returns the department with the given name, creating it
	// if absent. Safe under concurrent calls with the same name.
	FindOrCreate(ctx context.Context, name string) (*model.Department, error)

	// FindOrCreateMany applies FindOrCreate per name, preserving input
	// order. Duplicates in the input are not collapsed here; association
	// writes downstream are idempotent.
	FindOrCreateMany(ctx context.Context, names []string) ([]model.Department, error)

	// List returns all known departments.
	List(ctx context.Context) ([]model.Department, error)
}

type departmentService struct {
	repo repository.DepartmentRepository
}

// NewDepartmentService constructs a new DepartmentService.
func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) FindOrCreate(ctx context.Context, name string) (*model.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrDepartmentNameRequired
	}

	d, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	d, err = s.repo.Insert(ctx, name)
	if err == nil {
		return d, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		// Lost an insert race; the winner's row is readable now.
		return s.repo.FindByName(ctx, name)
	}
	return nil, err
}

func (s *departmentService) FindOrCreateMany(ctx context.Context, names []string) ([]model.Department, error) {
	departments := make([]model.Department, 0, len(names))
	for _, name := range names {
		d, err := s.FindOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		departments = append(departments, *d)
	}
	return departments, nil
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	return s.repo.List(ctx)
}
