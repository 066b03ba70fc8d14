package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrEmptyCode       = errors.New("service code is required")
)

// Service is a catalog entry. It is read-only to the booking engine.
type Service struct {
	id          uuid.UUID
	tenantID    uuid.UUID
	code        string
	name        string
	durationMin int
	active      bool
}

func NewService(id, tenantID uuid.UUID, code, name string, durationMin int, active bool) (*Service, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Service{
		id:          id,
		tenantID:    tenantID,
		code:        code,
		name:        strings.TrimSpace(name),
		durationMin: durationMin,
		active:      active,
	}, nil
}

func (s *Service) ID() uuid.UUID       { return s.id }
func (s *Service) TenantID() uuid.UUID { return s.tenantID }
func (s *Service) Code() string        { return s.code }
func (s *Service) Name() string        { return s.name }
func (s *Service) DurationMin() int    { return s.durationMin }
func (s *Service) IsActive() bool      { return s.active }

// Ref identifies a service either by id or by code, whichever the caller has.
type Ref string

func (r Ref) ID() (uuid.UUID, bool) {
	id, err := uuid.Parse(string(r))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (r Ref) Matches(s *Service) bool {
	if id, ok := r.ID(); ok {
		return s.id == id
	}
	return strings.EqualFold(strings.TrimSpace(string(r)), s.code)
}

func TotalDurationMin(services []*Service) int {
	total := 0
	for _, s := range services {
		total += s.durationMin
	}
	return total
}
