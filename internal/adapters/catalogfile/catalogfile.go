package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"gopkg.in/yaml.v3"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

const defaultMaxStars = 3

type fileCatalog struct {
	Levels       []fileLevel       `yaml:"levels"`
	Achievements []fileAchievement `yaml:"achievements"`
	Players      []string          `yaml:"players"`
}

type fileLevel struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Boss     bool   `yaml:"boss"`
	MaxStars *int   `yaml:"max_stars"`
}

type fileAchievement struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Rule        *fileRule `yaml:"rule"`
}

type fileRule struct {
	Kind  string `yaml:"kind"`
	Value *int   `yaml:"value"`
}

// Load reads a YAML seed catalog from path
func Load(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	catalog, err := Parse(data)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes and validates a YAML seed catalog. Unknown fields are rejected.
func Parse(data []byte) (domain.Catalog, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file fileCatalog
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return domain.Catalog{}, fmt.Errorf("%w: failed to decode yaml: %w", ErrInvalidCatalog, err)
	}

	levels, err := convertLevels(file.Levels)
	if err != nil {
		return domain.Catalog{}, err
	}

	achievements, err := convertAchievements(file.Achievements)
	if err != nil {
		return domain.Catalog{}, err
	}

	players, err := convertPlayers(file.Players)
	if err != nil {
		return domain.Catalog{}, err
	}

	return domain.Catalog{
		Levels:       levels,
		Achievements: achievements,
		Players:      players,
	}, nil
}

func convertLevels(entries []fileLevel) ([]domain.LevelMetadata, error) {
	levels := make([]domain.LevelMetadata, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for i, entry := range entries {
		if entry.ID <= 0 {
			return nil, fmt.Errorf("%w: level %d: id must be positive", ErrInvalidCatalog, i)
		}
		if _, ok := seen[entry.ID]; ok {
			return nil, fmt.Errorf("%w: level %d: duplicate id %d", ErrInvalidCatalog, i, entry.ID)
		}
		seen[entry.ID] = struct{}{}

		maxStars := defaultMaxStars
		if entry.MaxStars != nil {
			maxStars = *entry.MaxStars
		}
		if maxStars < 0 {
			return nil, fmt.Errorf("%w: level %d: max_stars must not be negative", ErrInvalidCatalog, entry.ID)
		}

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = fmt.Sprintf("Level %d", entry.ID)
		}

		levels = append(levels, domain.LevelMetadata{
			ID:          entry.ID,
			Name:        name,
			BossOnLevel: entry.Boss,
			MaxStars:    maxStars,
		})
	}
	return levels, nil
}

func convertAchievements(entries []fileAchievement) ([]domain.Achievement, error) {
	achievements := make([]domain.Achievement, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: achievement %d: name is required", ErrInvalidCatalog, i)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: achievement %q: duplicate name", ErrInvalidCatalog, name)
		}
		seen[name] = struct{}{}

		achievement := domain.Achievement{
			Name:        name,
			Description: entry.Description,
		}

		if entry.Rule != nil {
			rule, err := convertRule(*entry.Rule)
			if err != nil {
				return nil, fmt.Errorf("%w: achievement %q: %w", ErrInvalidCatalog, name, err)
			}
			achievement.Rule = &rule
		}

		achievements = append(achievements, achievement)
	}
	return achievements, nil
}

func convertRule(entry fileRule) (domain.ParsedCondition, error) {
	kind := domain.ConditionKind(strings.ToUpper(strings.TrimSpace(entry.Kind)))
	if !kind.Valid() {
		return domain.ParsedCondition{}, fmt.Errorf("unknown rule kind %q", entry.Kind)
	}

	if !kind.RequiresValue() {
		return domain.ParsedCondition{Kind: kind}, nil
	}

	if entry.Value == nil {
		return domain.ParsedCondition{}, fmt.Errorf("rule kind %s requires a value", kind)
	}
	if *entry.Value < 0 {
		return domain.ParsedCondition{}, fmt.Errorf("rule value must not be negative")
	}

	return domain.NewCondition(kind, *entry.Value), nil
}

func convertPlayers(entries []string) ([]string, error) {
	players := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		username := strings.TrimSpace(entry)
		if username == "" {
			return nil, fmt.Errorf("%w: player %d: username is required", ErrInvalidCatalog, i)
		}
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}
		players = append(players, username)
	}
	return players, nil
}
