package marquee_test

import (
	"context"
	"fmt"
	"log"

	"github.com/agentstation/marquee"
	"github.com/agentstation/marquee/internal/backend/memory"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/movies"
	"github.com/agentstation/marquee/pkg/store"
)

// Example demonstrates loading the snapshot and querying it
func Example() {
	ctx := context.Background()
	st := memory.New(memory.WithDocuments("movies",
		store.Document{"title": "Heat", "year": "1995", "director": "Michael Mann", "genre": "Crime"},
		store.Document{"title": "Alien", "year": "1979", "director": "Ridley Scott", "genre": "Sci-Fi"},
		store.Document{"title": "Collateral", "year": "2004", "director": "Michael Mann", "genre": "Crime"},
		store.Document{"title": "Gladiator", "year": "2000", "director": "Ridley Scott", "genre": "Drama"},
	))

	mq, err := marquee.New(ctx, marquee.WithStore(st), marquee.WithLogger(logging.NewNopLogger()))
	if err != nil {
		log.Fatal(err)
	}
	defer mq.Close()

	// The snapshot holds the first three records only
	fmt.Println("Snapshot rows:", mq.Catalog(ctx).Len())
	fmt.Println("Directors:", mq.Directors(ctx))

	for _, m := range mq.FilterByDirector(ctx, "Michael Mann").Rows {
		fmt.Println("Mann:", m.TitleText())
	}

	// Output:
	// Snapshot rows: 3
	// Directors: [Michael Mann Ridley Scott]
	// Mann: Heat
	// Mann: Collateral
}

// Example_submit shows that a stored movie appears only after invalidation
func Example_submit() {
	ctx := context.Background()
	mq, err := marquee.New(ctx,
		marquee.WithStore(memory.New()),
		marquee.WithLogger(logging.NewNopLogger()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer mq.Close()

	fmt.Println("Before:", mq.Catalog(ctx).Len())

	_, err = mq.Submit(ctx, movies.Submission{Title: "Alien", Year: "1979", Genre: "Sci-Fi"})
	fmt.Println("Rejected:", errors.IsValidationError(err))

	res, err := mq.Submit(ctx, movies.Submission{
		Title:    "Alien",
		Year:     "1979",
		Director: "Ridley Scott",
		Genre:    "Sci-Fi",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Stored:", res.Movie.Title)
	fmt.Println("Still cached:", mq.Catalog(ctx).Len())

	mq.Invalidate()
	fmt.Println("After reload:", mq.Catalog(ctx).Len())

	// Output:
	// Before: 0
	// Rejected: true
	// Stored: Alien
	// Still cached: 0
	// After reload: 1
}
