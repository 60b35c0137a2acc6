package view

import (
	"html/template"
	"sort"
	"sync"
)

// Container ids the renderers write to.
const (
	ContainerVerifyEmail       = "verify-email-address"
	ContainerProfile           = "profile-content"
	ContainerAccounts          = "accounts-list"
	ContainerDepartments       = "departments-list"
	ContainerDepartmentOptions = "department-options"
	ContainerEmployees         = "employees-list"
	ContainerRequests          = "requests-list"
)

// Surface receives rendered markup by container id.
type Surface interface {
	Put(container string, markup template.HTML)
}

type Container struct {
	ID     string
	Markup template.HTML
}

// MemorySurface keeps the latest markup for every container.
type MemorySurface struct {
	mu         sync.Mutex
	containers map[string]template.HTML
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{containers: make(map[string]template.HTML)}
}

func (s *MemorySurface) Put(container string, markup template.HTML) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.containers[container] = markup
}

func (s *MemorySurface) Get(container string) (template.HTML, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	markup, ok := s.containers[container]
	return markup, ok
}

// Pick returns the listed containers that have markup, in the order asked.
func (s *MemorySurface) Pick(ids ...string) []Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Container, 0, len(ids))
	for _, id := range ids {
		if markup, ok := s.containers[id]; ok {
			out = append(out, Container{ID: id, Markup: markup})
		}
	}
	return out
}

func (s *MemorySurface) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.containers))
	for id := range s.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
