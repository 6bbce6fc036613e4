// Package orgservice gives adapters with more than one caller (HTTP handlers,
// file watchers, the TUI) a single serialized entry point to one hierarchy.
package orgservice

import (
	"slices"
	"sync"

	"github.com/hochfrequenz/orgchart/internal/domain"
	"github.com/hochfrequenz/orgchart/internal/hierarchy"
	"github.com/hochfrequenz/orgchart/internal/seed"
	"github.com/sirupsen/logrus"
)

// EventKind names the mutation that produced an Event
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventAdded    EventKind = "added"
	EventUpdated  EventKind = "updated"
	EventPromoted EventKind = "promoted"
	EventDemoted  EventKind = "demoted"
	EventDeleted  EventKind = "deleted"
	EventLoaded   EventKind = "loaded"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before events to it are dropped.
const subscriberBuffer = 16

// Event is published after every successful mutation
type Event struct {
	Kind EventKind `json:"kind"`
	ID   int       `json:"id"`
}

// Stats summarizes the current tree
type Stats struct {
	Employees int
	Depth     int
	Root      *domain.Employee
}

// Service owns one hierarchy and runs every operation on it one at a time.
type Service struct {
	mu   sync.Mutex
	tree *hierarchy.Tree
	log  logrus.FieldLogger

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// New creates a service around an empty tree
func New(log logrus.FieldLogger) *Service {
	return &Service{
		tree: hierarchy.New(),
		log:  log,
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel of mutation events and a function that
// unsubscribes and closes it.
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Service) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.WithField("event", ev.Kind).Warn("subscriber is full, dropping event")
		}
	}
}

// Create replaces the tree with a single root
func (s *Service) Create(id int, name, position string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Create(id, name, position)
	s.log.WithFields(logrus.Fields{"op": "create", "employee_id": id}).Info("company created")
	s.publish(Event{Kind: EventCreated, ID: id})
}

// Load replaces the tree with a seed document
func (s *Service) Load(root *seed.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := seed.Build(s.tree, root); err != nil {
		s.log.WithError(err).Warn("seed rejected")
		return err
	}
	s.log.WithFields(logrus.Fields{"op": "load", "employees": s.tree.Len()}).Info("company loaded")
	s.publish(Event{Kind: EventLoaded, ID: root.ID})
	return nil
}

// AddChild adds a new employee below parentID
func (s *Service) AddChild(parentID, id int, name, position string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.AddChild(parentID, id, name, position); err != nil {
		s.log.WithFields(logrus.Fields{"op": "add", "parent_id": parentID}).Debug("parent not found")
		return err
	}
	s.log.WithFields(logrus.Fields{"op": "add", "employee_id": id, "parent_id": parentID}).Info("employee added")
	s.publish(Event{Kind: EventAdded, ID: id})
	return nil
}

// FindByID looks up one employee
func (s *Service) FindByID(id int) (domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.FindByID(id)
}

// FindAllByPosition returns every employee holding position, in pre-order
func (s *Service) FindAllByPosition(position string) []domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.FindAllByPosition(position)
}

// Subordinates returns the direct reports of id
func (s *Service) Subordinates(id int) ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Subordinates(id)
}

// UpdateByID changes name and/or position; empty values are left unchanged
func (s *Service) UpdateByID(id int, name, position string) error {
	return s.mutate(EventUpdated, id, func() error {
		return s.tree.UpdateByID(id, name, position)
	})
}

// Promote sets a new position for id
func (s *Service) Promote(id int, position string) error {
	return s.mutate(EventPromoted, id, func() error {
		return s.tree.Promote(id, position)
	})
}

// Demote sets a new position for id
func (s *Service) Demote(id int, position string) error {
	return s.mutate(EventDemoted, id, func() error {
		return s.tree.Demote(id, position)
	})
}

// DeleteByID removes id and everyone below them
func (s *Service) DeleteByID(id int) error {
	return s.mutate(EventDeleted, id, func() error {
		return s.tree.DeleteByID(id)
	})
}

func (s *Service) mutate(kind EventKind, id int, op func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.WithFields(logrus.Fields{"op": string(kind), "employee_id": id})
	if err := op(); err != nil {
		log.WithError(err).Debug("operation failed")
		return err
	}
	log.Info("employee " + string(kind))
	s.publish(Event{Kind: kind, ID: id})
	return nil
}

// Snapshot returns the rendered tree at this moment
func (s *Service) Snapshot() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(s.tree.Render())
}

// Stats returns size information about the tree
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Employees: s.tree.Len(), Depth: s.tree.Depth()}
	if root, ok := s.tree.Root(); ok {
		st.Root = &root
	}
	return st
}
