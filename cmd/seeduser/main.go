// cmd/seeduser/main.go: creates or resets the demo account, with a demo
// restaurant, its tables and catalog, in the configured snapshot storage.
// Usage: go run ./cmd/seeduser
// Run it while the server is stopped; the server owns the snapshot.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"paulinepos/internal/config"
	"paulinepos/internal/model"
	"paulinepos/internal/repository"
	"paulinepos/internal/seed"
	"paulinepos/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoEmail      = "demo@pauline.cm"
	demoPassword   = "pauline123"
	demoRestaurant = "Chez Pauline (démo)"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open snapshot storage")
	}
	defer backend.Close()

	st := store.New(store.WithLocation(cfg.Location()))
	if err := st.Hydrate(ctx, backend.Repo); err != nil {
		log.Fatal().Err(err).Msg("failed to load snapshot")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}
	h := string(hash)

	var uid model.UserID
	if u, ok := st.UserByEmail(demoEmail); ok {
		uid = u.ID
		st.UpdateUser(uid, model.UserPatch{Password: &h})
	} else {
		uid = st.AddUser(model.User{Firstname: "Pauline", Lastname: "Démo", Email: demoEmail, Password: h})
	}

	created := false
	if len(st.RestaurantsByOwner(uid)) == 0 {
		rid := st.AddRestaurant(model.Restaurant{
			Name:      demoRestaurant,
			Specialty: "Cuisine camerounaise",
			Address:   "Rue de la Joie, Akwa, Douala",
			OwnerID:   uid,
		})
		for _, t := range seed.DemoTables(rid) {
			st.AddTable(t)
		}
		for _, p := range seed.DemoProducts(rid) {
			st.AddProduct(p)
		}
		created = true
	}

	if err := backend.Repo.Save(ctx, st.Snapshot()); err != nil {
		log.Fatal().Err(err).Msg("failed to save snapshot")
	}
	fmt.Printf("✅ Utilisateur '%s' créé/mis à jour avec le mot de passe '%s'\n", demoEmail, demoPassword)
	if created {
		fmt.Printf("✅ Restaurant '%s' créé avec ses tables et sa carte\n", demoRestaurant)
	}
}
