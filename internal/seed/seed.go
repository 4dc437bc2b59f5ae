package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/logger"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

var tracer = otel.Tracer("poscake/seed")

// Options configures a seed run. The zero value seeds the default admin
// account with unseeded random stock levels.
type Options struct {
	AdminEmail    string
	AdminPassword string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// Rand draws opening stock quantities. Nil means a fresh unseeded source.
	Rand *rand.Rand
	// Logger defaults to the process logger annotated with the trace ids of
	// the seed context.
	Logger *zerolog.Logger
}

func (o Options) withDefaults(ctx context.Context) Options {
	if o.AdminEmail == "" {
		o.AdminEmail = "admin@poscake.local"
	}
	if o.AdminPassword == "" {
		o.AdminPassword = "admin123"
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = logger.WithContext(ctx)
	}
	return o
}

// Result counts, per entity name, the rows a run created and the rows it
// found already present.
type Result struct {
	Created  map[string]int
	Existing map[string]int
}

func newResult() *Result {
	return &Result{Created: map[string]int{}, Existing: map[string]int{}}
}

// TotalCreated is the number of rows the run inserted.
func (r *Result) TotalCreated() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}

// Seed brings the store to the reference dataset. It is idempotent: rows are
// looked up by their unique key and created only when absent, and existing
// rows are never modified. Call order matters: the admin user first, then
// categories, products with their inventory, and the sample customer.
// A failed run leaves what it created in place; running again completes it.
func Seed(ctx context.Context, s *store.Store, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "seed.Seed")
	defer span.End()

	opts = opts.withDefaults(ctx)
	log := opts.Logger
	res := newResult()

	log.Info().Msg("seeding database")

	admin, err := step(ctx, "seed.admin", func(ctx context.Context) (*domain.User, error) {
		return Admin(ctx, s, opts, res)
	})
	if err != nil {
		return res, fail(span, fmt.Errorf("seed admin user: %w", err))
	}
	log.Info().Str("email", admin.Email).Msg("admin user ready")

	categoryIDs, err := step(ctx, "seed.categories", func(ctx context.Context) (map[string]string, error) {
		return Categories(ctx, s, res)
	})
	if err != nil {
		return res, fail(span, fmt.Errorf("seed categories: %w", err))
	}
	log.Info().Int("count", len(categoryIDs)).Msg("categories ready")

	n, err := step(ctx, "seed.products", func(ctx context.Context) (int, error) {
		return Products(ctx, s, categoryIDs, admin.ID, opts.Rand, res)
	})
	if err != nil {
		return res, fail(span, fmt.Errorf("seed products: %w", err))
	}
	log.Info().Int("count", n).Msg("products ready")

	customer, err := step(ctx, "seed.customer", func(ctx context.Context) (*domain.Customer, error) {
		return SampleCustomer(ctx, s, res)
	})
	if err != nil {
		return res, fail(span, fmt.Errorf("seed sample customer: %w", err))
	}
	log.Info().Str("name", customer.Name).Msg("sample customer ready")

	span.SetAttributes(attribute.Int("seed.created", res.TotalCreated()))
	log.Info().
		Interface("created", res.Created).
		Interface("existing", res.Existing).
		Msg("seeding complete")
	return res, nil
}

// step runs fn inside a child span.
func step[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	v, err := fn(ctx)
	if err != nil {
		_ = fail(span, err)
	}
	return v, err
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// findOrCreate returns the row find locates, or the row create inserts when
// find reports ErrNotFound. Create errors, including unique violations from
// a concurrent writer, are returned unchanged.
func findOrCreate[T any](res *Result, entity string, find func() (*T, error), create func() (*T, error)) (*T, error) {
	got, err := find()
	if err == nil {
		res.Existing[entity]++
		return got, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	got, err = create()
	if err != nil {
		return nil, err
	}
	res.Created[entity]++
	return got, nil
}
