// Command seed loads demo users, products, stories and reviews into Postgres.
//
//	go run ./cmd/seed                 # embedded fixtures, refuses to seed twice
//	go run ./cmd/seed -reset          # truncate first
//	go run ./cmd/seed -file my.yaml
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/validation"
	"github.com/handcrafted-haven/marketplace/internal/infrastructure/db/postgres"
	"github.com/handcrafted-haven/marketplace/internal/pkg/config"
	"github.com/handcrafted-haven/marketplace/pkg/logger"
)

func main() {
	file := flag.String("file", "", "YAML fixture to load (defaults to the embedded demo catalogue)")
	reset := flag.Bool("reset", false, "Truncate all marketplace tables before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	if *reset && !cfg.IsDevelopment() {
		log.Fatal().Str("env", cfg.Env).Msg("refusing to reset outside development")
	}

	var src io.Reader = bytes.NewReader(defaultFixture)
	if *file != "" {
		fh, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Msg("open fixture")
		}
		defer fh.Close()
		src = fh
	}
	fx, err := loadFixture(src)
	if err != nil {
		log.Fatal().Err(err).Msg("load fixture")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if *reset {
		if err := truncate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("reset")
		}
		log.Warn().Msg("tables truncated")
	}

	s := &seeder{
		users:    postgres.NewUserRepository(pool),
		products: postgres.NewProductRepository(pool),
		stories:  postgres.NewStoryRepository(pool),
		reviews:  postgres.NewReviewRepository(pool),
		validate: validation.New(),
		log:      log,
	}
	if err := s.run(ctx, fx); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			log.Fatal().Err(err).Msg("database already seeded; rerun with -reset")
		}
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().
		Int("users", len(fx.Users)).
		Int("products", len(fx.Products)).
		Int("stories", len(fx.Stories)).
		Int("reviews", len(fx.Reviews)).
		Msg("seed complete")
}

func truncate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE reviews, seller_stories, products, users`)
	return err
}

type seeder struct {
	users    *postgres.UserRepository
	products *postgres.ProductRepository
	stories  *postgres.StoryRepository
	reviews  *postgres.ReviewRepository
	validate *validation.Validator
	log      zerolog.Logger
}

// run inserts the fixture through the repositories. Every payload goes through
// the same validator the API uses, so seeded rows satisfy the same rules.
func (s *seeder) run(ctx context.Context, fx *fixture) error {
	userIDs := make(map[string]string, len(fx.Users))
	for _, u := range fx.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		role, ok := domain.ParseRole(u.Role)
		if !ok {
			return errors.New("unknown role " + u.Role)
		}
		created, err := s.users.Create(ctx, &domain.User{
			ID:           uuid.NewString(),
			Name:         u.Name,
			Email:        strings.ToLower(strings.TrimSpace(u.Email)),
			PasswordHash: string(hash),
			Role:         role,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		userIDs[u.Key] = created.ID
	}

	productIDs := make(map[string]string, len(fx.Products))
	for _, p := range fx.Products {
		fields, err := s.validate.Product(p.raw())
		if err != nil {
			return errors.Join(errors.New("product "+p.Key), err)
		}
		created, err := s.products.Insert(ctx, uuid.NewString(), userIDs[p.Seller], fields)
		if err != nil {
			return err
		}
		productIDs[p.Key] = created.ID
	}

	for _, st := range fx.Stories {
		fields, err := s.validate.Story(map[string]string{"title": st.Title, "story": st.Story})
		if err != nil {
			return errors.Join(errors.New("story "+st.Title), err)
		}
		if _, err := s.stories.Insert(ctx, uuid.NewString(), userIDs[st.Seller], fields); err != nil {
			return err
		}
	}

	for _, r := range fx.Reviews {
		fields, err := s.validate.Review(r.raw())
		if err != nil {
			return errors.Join(errors.New("review of "+r.Product), err)
		}
		if _, err := s.reviews.Insert(ctx, uuid.NewString(), productIDs[r.Product], userIDs[r.Author], fields); err != nil {
			return err
		}
	}

	s.log.Debug().Int("users", len(userIDs)).Int("products", len(productIDs)).Msg("rows inserted")
	return nil
}
