// Command seed loads workspace fixtures into the catalog. The fixture file
// is the JSON produced by the offline floor-plan conversion: an array of
// workspaces with names, floor-plan element ids and rectangle geometry.
// Existing rows (matched by floorplan_id) are updated in place.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/deskbook/deskbook/internal/config"
	"github.com/deskbook/deskbook/internal/domain"
	"github.com/deskbook/deskbook/internal/repository/postgres"
	"github.com/deskbook/deskbook/internal/repository/redis"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	fixturePath := flag.String("fixture", "configs/workspaces.json", "path to the workspace fixture file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	data, err := os.ReadFile(*fixturePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *fixturePath).Msg("Failed to read fixture")
	}

	var fixtures []domain.WorkspaceCreate
	if err := json.Unmarshal(data, &fixtures); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse fixture")
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	const query = `
		INSERT INTO workspaces (id, name, floorplan_id, location, capacity, workspace_type,
			description, geometry, status, amenities, hourly_rate_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (floorplan_id) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			capacity = EXCLUDED.capacity,
			workspace_type = EXCLUDED.workspace_type,
			description = EXCLUDED.description,
			geometry = EXCLUDED.geometry,
			status = EXCLUDED.status,
			amenities = EXCLUDED.amenities,
			hourly_rate_cents = EXCLUDED.hourly_rate_cents,
			updated_at = NOW()
	`

	for _, f := range fixtures {
		status := f.Status
		if status == "" {
			status = domain.WorkspaceAvailable
		}
		geometry := f.Geometry
		if geometry.Shape == "" {
			geometry.Shape = "rectangle"
		}

		geometryJSON, err := json.Marshal(geometry)
		if err != nil {
			log.Fatal().Err(err).Str("workspace", f.Name).Msg("Failed to marshal geometry")
		}

		_, err = db.Pool.Exec(ctx, query,
			uuid.New(), f.Name, f.FloorplanID, f.Location, f.Capacity, f.Type,
			f.Description, geometryJSON, status, f.Amenities, f.HourlyRateCents,
		)
		if err != nil {
			log.Fatal().Err(err).Str("workspace", f.Name).Msg("Failed to seed workspace")
		}

		log.Info().Str("workspace", f.Name).Str("floorplan_id", f.FloorplanID).Msg("Seeded workspace")
	}

	// Cached catalog entries are stale after an upsert; drop them all.
	if redisClient, err := redis.NewClient(cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, workspace cache not flushed")
	} else {
		defer redisClient.Close()
		flushed, err := redis.NewCatalogCache(redisClient).FlushAll(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to flush workspace cache")
		} else if flushed > 0 {
			log.Info().Int64("entries", flushed).Msg("Flushed workspace cache")
		}
	}

	log.Info().Int("count", len(fixtures)).Msg("Seeding complete")
}
