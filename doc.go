// Package marquee provides the main entry point for the marquee movie
// dashboard. It wires a record store, a memoized catalog snapshot, the
// title and director queries, and the add-movie submission behind one
// interface.
//
// The catalog is a snapshot of the first N records of the collection
// (three by default). It is read once per cache epoch; adding a movie does
// not refresh it unless the instance was built WithRefreshOnSubmit.
//
// Example usage:
//
//	mq, err := marquee.New(ctx, marquee.WithStoreConfig(store.Config{
//	    Backend:       "sqlite",
//	    Path:          "marquee.db",
//	    Collection:    "movies",
//	    SnapshotLimit: 3,
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mq.Close()
//
//	mq.OnMovieAdded(func(res submission.Result) {
//	    log.Printf("added %s", res.ID)
//	})
//
//	for _, m := range mq.Search(ctx, "amelie").Rows {
//	    fmt.Println(m.TitleText())
//	}
//
//	if _, err := mq.Submit(ctx, movies.Submission{Title: "Heat", Year: "1995", Director: "Mann", Genre: "Crime"}); err != nil {
//	    log.Print(err)
//	}
//	mq.Invalidate()
package marquee
