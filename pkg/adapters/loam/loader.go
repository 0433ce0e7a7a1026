package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/motionplan/pkg/adapters/lattice"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// Loader adapts the Loam library to the ScenarioLoader interface.
// Each document in the repository is one scenario.
type Loader struct {
	Repo     *loam.TypedRepository[ScenarioMetadata]
	Automata ports.AutomatonProvider
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ScenarioMetadata], automata ports.AutomatonProvider) *Loader {
	return &Loader{
		Repo:     repo,
		Automata: automata,
	}
}

// Open initializes a read-only Loam repository over dir.
func Open(dir string, automata ports.AutomatonProvider) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// strict mode keeps numbers as json.Number across Markdown, YAML and JSON documents
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[ScenarioMetadata](repo), automata), nil
}

// index maps normalized scenario ids to Loam document ids.
func (l *Loader) index(ctx context.Context) (map[string]string, []string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, nil, fmt.Errorf("collision detected: scenario '%s' is defined in both '%s' and '%s'", id, existingPath, trimExtension(doc.ID))
		}
		seen[id] = trimExtension(doc.ID)
		ids = append(ids, id)
	}
	return seen, ids, nil
}

// ListScenarios lists all scenarios in the repository.
func (l *Loader) ListScenarios(ctx context.Context) ([]string, error) {
	_, ids, err := l.index(ctx)
	return ids, err
}

// LoadScenario reads one scenario document.
func (l *Loader) LoadScenario(ctx context.Context, id string) (*ports.Scenario, error) {
	paths, _, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	docID, ok := paths[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrScenarioNotFound, id)
	}

	doc, err := l.Repo.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	meta := doc.Data
	if len(meta.PlanningProblems) == 0 {
		return nil, fmt.Errorf("scenario %s has no planning problems", id)
	}
	for i, p := range meta.PlanningProblems {
		if p.Goal.Time.End < p.Goal.Time.Start {
			return nil, fmt.Errorf("scenario %s: planning problem %d has an empty goal time interval", id, i)
		}
	}

	return &ports.Scenario{
		ID:       id,
		Problems: meta.PlanningProblems,
		Collision: &lattice.Obstacles{
			Items:  meta.Obstacles,
			Margin: meta.Margin,
		},
		Automata: l.Automata,
	}, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	switch strings.ToLower(ext) {
	case ".md", ".json", ".yaml", ".yml":
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	default:
		return filepath.ToSlash(id)
	}
}
