package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/config"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/heencoffee/pos-api/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin full name")
	withCatalog := flag.Bool("catalog", true, "Also seed a starter menu and stock list")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, true)

	// Fall back to environment variables, then defaults
	*email = firstNonEmpty(*email, os.Getenv("SEED_EMAIL"), "admin@heencoffee.local")
	*name = firstNonEmpty(*name, os.Getenv("SEED_NAME"), "Admin")
	*password = firstNonEmpty(*password, os.Getenv("SEED_PASSWORD"))
	if *password == "" {
		*password = "password123"
		log.Warn().Msg("using default password 'password123'. Change immediately in production!")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("unable to ping database")
	}

	// Seed in a transaction: all or nothing
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	q := database.New(tx)

	userID, err := seedAdmin(ctx, q, strings.ToLower(strings.TrimSpace(*email)), *password, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}

	if *withCatalog {
		if err := seedCatalog(ctx, q); err != nil {
			log.Fatal().Err(err).Msg("failed to seed catalog")
		}
		if err := seedInventory(ctx, q); err != nil {
			log.Fatal().Err(err).Msg("failed to seed inventory")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to commit")
	}

	log.Info().Str("admin_id", userID.String()).Msg("seed completed successfully")
}

// seedAdmin creates the admin user if the email is not taken.
func seedAdmin(ctx context.Context, q *database.Queries, email, password, fullName string) (uuid.UUID, error) {
	existing, err := q.GetUserByEmail(ctx, email)
	if err == nil {
		log.Info().Str("email", email).Str("id", existing.ID.String()).Msg("user already exists, skipping")
		return existing.ID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("check user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := q.CreateUser(ctx, database.CreateUserParams{
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       fullName,
		Role:           enum.UserRoleAdmin,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
	}

	log.Info().Str("email", email).Str("id", user.ID.String()).Msg("created admin user")
	return user.ID, nil
}

type seedProduct struct {
	name, slug, price string
	hasSize, hasTemp  bool
	toppings          []string
}

type seedCategory struct {
	name, slug string
	products   []seedProduct
}

var starterToppings = map[string]string{
	"Extra Shot":    "0.75",
	"Vanilla Syrup": "0.50",
	"Oat Milk":      "0.60",
	"Whipped Cream": "0.40",
}

var starterMenu = []seedCategory{
	{name: "Coffee", slug: "coffee", products: []seedProduct{
		{name: "Americano", slug: "americano", price: "3.00", hasSize: true, hasTemp: true, toppings: []string{"Extra Shot", "Vanilla Syrup"}},
		{name: "Latte", slug: "latte", price: "4.00", hasSize: true, hasTemp: true, toppings: []string{"Extra Shot", "Vanilla Syrup", "Oat Milk"}},
		{name: "Mocha", slug: "mocha", price: "4.50", hasSize: true, hasTemp: true, toppings: []string{"Extra Shot", "Whipped Cream"}},
	}},
	{name: "Non Coffee", slug: "non-coffee", products: []seedProduct{
		{name: "Chocolate", slug: "chocolate", price: "3.50", hasSize: true, hasTemp: true, toppings: []string{"Whipped Cream", "Oat Milk"}},
		{name: "Lemon Tea", slug: "lemon-tea", price: "2.75", hasSize: true, hasTemp: true},
	}},
	{name: "Pastry", slug: "pastry", products: []seedProduct{
		{name: "Croissant", slug: "croissant", price: "2.50"},
	}},
}

// seedCatalog creates a starter menu when no categories exist yet.
func seedCatalog(ctx context.Context, q *database.Queries) error {
	existing, err := q.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("categories", len(existing)).Msg("catalog already present, skipping")
		return nil
	}

	toppingIDs := make(map[string]uuid.UUID, len(starterToppings))
	for name, price := range starterToppings {
		t, err := q.CreateTopping(ctx, database.CreateToppingParams{Name: name, Price: numeric(price)})
		if err != nil {
			return fmt.Errorf("insert topping %q: %w", name, err)
		}
		toppingIDs[name] = t.ID
	}

	for i, c := range starterMenu {
		cat, err := q.CreateCategory(ctx, database.CreateCategoryParams{
			Name:      c.name,
			Slug:      c.slug,
			SortOrder: int32(i),
		})
		if err != nil {
			return fmt.Errorf("insert category %q: %w", c.name, err)
		}

		for _, p := range c.products {
			prod, err := q.CreateProduct(ctx, database.CreateProductParams{
				CategoryID:     cat.ID,
				Name:           p.name,
				Slug:           p.slug,
				BasePrice:      numeric(p.price),
				HasSize:        p.hasSize,
				HasTemperature: p.hasTemp,
			})
			if err != nil {
				return fmt.Errorf("insert product %q: %w", p.name, err)
			}
			for _, t := range p.toppings {
				if err := q.AddProductTopping(ctx, database.AddProductToppingParams{
					ProductID: prod.ID,
					ToppingID: toppingIDs[t],
				}); err != nil {
					return fmt.Errorf("link topping %q to %q: %w", t, p.name, err)
				}
			}
		}
	}

	log.Info().Int("categories", len(starterMenu)).Int("toppings", len(starterToppings)).Msg("created starter catalog")
	return nil
}

// seedInventory creates a starter stock list when none exists yet.
func seedInventory(ctx context.Context, q *database.Queries) error {
	existing, err := q.ListInventoryItems(ctx, database.ListInventoryItemsParams{})
	if err != nil {
		return fmt.Errorf("list inventory: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("items", len(existing)).Msg("inventory already present, skipping")
		return nil
	}

	items := []database.CreateInventoryItemParams{
		{Name: "Arabica Beans", Category: "coffee", Stock: numeric("5000"), Unit: "g", LowStockThreshold: numeric("1000"), AutoDeduct: true},
		{Name: "Whole Milk", Category: "dairy", Stock: numeric("20"), Unit: "l", LowStockThreshold: numeric("5"), AutoDeduct: true},
		{Name: "Oat Milk", Category: "dairy", Stock: numeric("10"), Unit: "l", LowStockThreshold: numeric("3"), AutoDeduct: true},
		{Name: "Cups 12oz", Category: "packaging", Stock: numeric("500"), Unit: "pcs", LowStockThreshold: numeric("100"), AutoDeduct: false},
	}
	for _, item := range items {
		if _, err := q.CreateInventoryItem(ctx, item); err != nil {
			return fmt.Errorf("insert inventory item %q: %w", item.Name, err)
		}
	}

	log.Info().Int("items", len(items)).Msg("created starter inventory")
	return nil
}

func numeric(s string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(s)
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
