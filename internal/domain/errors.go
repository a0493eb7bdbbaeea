package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrganizationNotFound matches any *OrganizationNotFoundError via errors.Is.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrFetchContract matches any *FetchContractError via errors.Is.
	ErrFetchContract = errors.New("fetch contract violation")
	// ErrDurableOutput marks failures to create or write the CSV report. They are fatal for a run.
	ErrDurableOutput = errors.New("durable output failure")
)

// OrganizationNotFoundError reports that the organization lookup for Name failed.
type OrganizationNotFoundError struct {
	Name string
	Err  error
}

func (e *OrganizationNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("organization %s not found", e.Name)
	}
	return fmt.Sprintf("organization %s not found: %v", e.Name, e.Err)
}

func (e *OrganizationNotFoundError) Unwrap() error { return e.Err }

func (e *OrganizationNotFoundError) Is(target error) bool {
	return target == ErrOrganizationNotFound
}

// FetchContractError reports a repository record that lacks a required field.
type FetchContractError struct {
	Repository string
	Field      string
}

func (e *FetchContractError) Error() string {
	return fmt.Sprintf("repository %q: missing or invalid field %q", e.Repository, e.Field)
}

func (e *FetchContractError) Is(target error) bool {
	return target == ErrFetchContract
}
