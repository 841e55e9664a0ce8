// Package store reads survey data from Firestore. All subcollections of a
// single version document are streamed and flattened into single-level
// documents keyed by dot-separated field paths, which is the shape the
// report package consumes.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Document is a flattened Firestore document. Nested maps are collapsed
// into dot-separated keys; the document ID is stored under "id".
type Document map[string]any

// Sections maps a subcollection name to its flattened documents.
type Sections map[string][]Document

// Client reads from a Firestore project.
type Client struct {
	fs       *firestore.Client
	logger   *slog.Logger
	parallel int
}

// NewClient creates a Firestore-backed store client. credentialsFile may be
// empty, in which case application default credentials are used (the
// library also honors GOOGLE_APPLICATION_CREDENTIALS itself).
func NewClient(ctx context.Context, projectID, credentialsFile string, parallel int, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if parallel < 1 {
		parallel = 1
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("store: creating firestore client: %w", err)
	}

	return &Client{fs: fs, logger: logger, parallel: parallel}, nil
}

// Close releases the underlying Firestore connection.
func (c *Client) Close() error {
	return c.fs.Close()
}

// ReadSections reads all subcollections of the document at documentPath.
// Subcollections are discovered first, then streamed with bounded
// parallelism. Document order within a section follows Firestore's
// default (document ID) ordering.
func (c *Client) ReadSections(ctx context.Context, documentPath string) (Sections, error) {
	docRef := c.fs.Doc(documentPath)
	if docRef == nil {
		return nil, fmt.Errorf("store: %q is not a valid document path", documentPath)
	}

	var names []string

	cols := docRef.Collections(ctx)
	for {
		col, err := cols.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("store: listing subcollections of %s: %w", documentPath, err)
		}

		names = append(names, col.ID)
	}

	sort.Strings(names)
	c.logger.Debug("discovered subcollections",
		slog.String("document", documentPath),
		slog.Int("count", len(names)),
	)

	sections := make(Sections, len(names))

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)

	for _, name := range names {
		g.Go(func() error {
			docs, err := c.readCollection(gctx, docRef.Collection(name))
			if err != nil {
				return err
			}

			mu.Lock()
			sections[name] = docs
			mu.Unlock()

			c.logger.Info("read subcollection",
				slog.String("section", name),
				slog.Int("documents", len(docs)),
			)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sections, nil
}

// readCollection streams and flattens every document in a collection.
func (c *Client) readCollection(ctx context.Context, col *firestore.CollectionRef) ([]Document, error) {
	var docs []Document

	iter := col.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("store: reading collection %s: %w", col.ID, err)
		}

		docs = append(docs, FlattenSnapshot(snap.Ref.ID, snap.Data()))
	}

	return docs, nil
}
