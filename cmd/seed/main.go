package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/internal/farmers"
	"github.com/krishichetan/krishichetan-backend/pkg/config"
	"github.com/krishichetan/krishichetan-backend/pkg/db"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
	"github.com/krishichetan/krishichetan-backend/pkg/migrate"
	"github.com/krishichetan/krishichetan-backend/pkg/storage"
)

var (
	crops     = []string{"Wheat", "Rice", "Sugarcane", "Cotton", "Soybean", "Maize", "Tomato", "Onion"}
	locations = []string{"Satara", "Koregaon", "Wai", "Mahabaleshwar", "Karad", "Phaltan"}
	stages    = []string{"Vegetative", "Flowering", "Harvesting", "Sowing"}
	soils     = []string{"Black Soil", "Red Soil", "Alluvial", "Clay"}
	kinds     = []enums.AdvisoryKind{enums.AdvisoryKindPest, enums.AdvisoryKindWeather, enums.AdvisoryKindIrrigation}
)

// seed populates demo farmer profiles and advisory histories for local
// development.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	count := flag.Int("count", 50, "number of demo farmers")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	cfg, err := config.Load()
	fatalOn(ctx, logg, "loading config", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	fatalOn(ctx, logg, "bootstrapping database", err)
	defer dbClient.Close()

	fatalOn(ctx, logg, "running dev migrations", migrate.MaybeAutoMigrate(ctx, cfg, logg, dbClient))

	farmerService, err := farmers.NewService(farmers.NewRepository(dbClient.DB()))
	fatalOn(ctx, logg, "creating farmer service", err)

	doc, err := storage.NewFileDocStore(cfg.Advisory.FilePath)
	fatalOn(ctx, logg, "opening advisory store", err)
	store, err := advisory.NewStore(ctx, advisory.StoreParams{Doc: doc})
	fatalOn(ctx, logg, "loading advisory store", err)

	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *count; i++ {
		phone := fmt.Sprintf("98765%05d", i)
		_, err := farmerService.Register(ctx, farmers.RegisterInput{
			Phone:         phone,
			Name:          fmt.Sprintf("Farmer %d", i+1),
			CropType:      crops[rng.Intn(len(crops))],
			Location:      locations[rng.Intn(len(locations))],
			SowingDate:    "2025-11-15",
			LandSizeAcres: 0.5 + rng.Float64()*9.5,
			GrowthStage:   stages[rng.Intn(len(stages))],
			SoilType:      soils[rng.Intn(len(soils))],
		})
		if err != nil {
			logg.Warn(logg.WithSubject(ctx, phone), "skipping farmer: "+err.Error())
			continue
		}
		if _, err := farmerService.UpdateRiskScore(ctx, phone, rng.Intn(101)); err != nil {
			fatalOn(ctx, logg, "setting risk score", err)
		}

		for n := rng.Intn(5) + 1; n > 0; n-- {
			record, err := store.Create(ctx, phone, kinds[rng.Intn(len(kinds))],
				"Sample advisory message", enums.LanguageEnglish, time.Now())
			fatalOn(ctx, logg, "creating advisory", err)

			switch rng.Intn(3) {
			case 0:
				_, err = store.Transition(ctx, phone, record.ID, enums.AdvisoryStatusFollowed)
			case 1:
				_, err = store.Transition(ctx, phone, record.ID, enums.AdvisoryStatusIgnored)
			}
			fatalOn(ctx, logg, "resolving advisory", err)
		}
	}

	logg.Info(logg.WithField(ctx, "farmers", *count), "seed complete")
}

func fatalOn(ctx context.Context, logg *logger.Logger, action string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, action, err)
	os.Exit(1)
}
