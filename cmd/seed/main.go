// Command seed bulk-loads nodes from a YAML file through the same store
// path the API uses. Entries are created in file order; an entry may
// name an earlier entry as its parent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"atlas-backend/application/services"
	"atlas-backend/domain/core/valueobjects"
	"atlas-backend/infrastructure/config"
	"atlas-backend/infrastructure/di"
)

type seedEntry struct {
	Type     string                 `yaml:"type"`
	Name     string                 `yaml:"name"`
	Content  string                 `yaml:"content"`
	Parent   string                 `yaml:"parent,omitempty"`
	Metadata map[string]interface{} `yaml:"metadata,omitempty"`
}

type seedFile struct {
	Nodes []seedEntry `yaml:"nodes"`
}

func main() {
	path := flag.String("file", "", "path to the seed YAML file")
	flag.Parse()

	if *path == "" {
		if env := os.Getenv("SEED_PATH"); env != "" {
			*path = env
		} else {
			log.Fatal("seed file required: pass -file or set SEED_PATH")
		}
	}

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	if err := container.NodeService.RebuildIndex(ctx); err != nil {
		logger.Fatal("Failed to rebuild node index", zap.Error(err))
	}

	entries, err := loadSeedFile(*path)
	if err != nil {
		logger.Fatal("Failed to load seed file", zap.String("path", *path), zap.Error(err))
	}

	created, err := seed(ctx, container.NodeService, entries)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Int("created", created), zap.Error(err))
	}

	logger.Info("Seeding complete",
		zap.String("path", *path),
		zap.Int("created", created),
		zap.Int("total", len(entries)),
	)
}

func loadSeedFile(path string) ([]seedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	return file.Nodes, nil
}

// seed creates the entries in order, resolving parent references by the
// name of an earlier entry. Creation is idempotent, so re-running a
// seed file is safe.
func seed(ctx context.Context, nodes *services.NodeService, entries []seedEntry) (int, error) {
	idsByName := make(map[string]string, len(entries))
	created := 0

	for i, entry := range entries {
		parentID := ""
		if entry.Parent != "" {
			id, ok := idsByName[entry.Parent]
			if !ok {
				return created, fmt.Errorf("entry %d (%s): parent %q not defined earlier in file", i, entry.Name, entry.Parent)
			}
			parentID = id
		}

		metadata, err := valueobjects.MetadataFrom(entry.Metadata)
		if err != nil {
			return created, fmt.Errorf("entry %d (%s): %w", i, entry.Name, err)
		}

		node, err := nodes.Create(ctx, services.CreateNodeInput{
			Type:     entry.Type,
			Name:     entry.Name,
			Content:  entry.Content,
			ParentID: parentID,
			Metadata: metadata,
		})
		if err != nil {
			return created, fmt.Errorf("entry %d (%s): %w", i, entry.Name, err)
		}

		idsByName[entry.Name] = node.ID().String()
		created++
	}

	return created, nil
}
