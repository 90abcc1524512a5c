package dataset

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Store bundles the loaded dataset with lookup indices.
type Store struct {
	Projects []*Project
	Bridges  []*Bridge
	Clusters map[int]*Cluster

	projectByID map[int]*Project
}

// Load reads projects and bridges from CSV files and derives cluster
// summaries. Either path may point anywhere; the caller owns the layout.
func Load(projectsPath, bridgesPath string) (*Store, error) {
	projects, err := loadProjects(projectsPath)
	if err != nil {
		return nil, err
	}
	bridges, err := loadBridges(bridgesPath)
	if err != nil {
		return nil, err
	}
	return NewStore(projects, bridges), nil
}

// NewStore builds a store (and its indices) from in-memory records.
func NewStore(projects []*Project, bridges []*Bridge) *Store {
	s := &Store{
		Projects:    projects,
		Bridges:     bridges,
		Clusters:    DeriveClusters(projects),
		projectByID: make(map[int]*Project, len(projects)),
	}
	for _, p := range projects {
		s.projectByID[p.ID] = p
	}
	return s
}

func loadProjects(path string) ([]*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening projects file: %w", err)
	}
	defer f.Close()

	var projects []*Project
	if err := gocsv.UnmarshalFile(f, &projects); err != nil {
		return nil, fmt.Errorf("parsing projects file: %w", err)
	}
	return projects, nil
}

func loadBridges(path string) ([]*Bridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bridges file: %w", err)
	}
	defer f.Close()

	var bridges []*Bridge
	if err := gocsv.UnmarshalFile(f, &bridges); err != nil {
		return nil, fmt.Errorf("parsing bridges file: %w", err)
	}
	return bridges, nil
}

// Project looks up a project by id.
func (s *Store) Project(id int) (*Project, bool) {
	p, ok := s.projectByID[id]
	return p, ok
}

// Cluster looks up a derived cluster summary by id.
func (s *Store) Cluster(id int) (*Cluster, bool) {
	c, ok := s.Clusters[id]
	return c, ok
}

// ActiveClusterIDs returns ids of clusters that have at least one project
// with a year inside [year-windowYears, year].
func (s *Store) ActiveClusterIDs(year, windowYears float64) []int {
	active := make(map[int]bool)
	for _, p := range s.Projects {
		if p.Year >= year-windowYears && p.Year <= year {
			active[p.ClusterID] = true
		}
	}
	ids := make([]int, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	return ids
}
