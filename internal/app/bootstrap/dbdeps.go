// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/movehq/moveboard/internal/upstream"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to the subsequent
// lifecycle hooks: EnsureSchema, Startup, BuildHandler, and Shutdown.
// The Shutdown hook closes these connections when the app terminates.
type DBDeps struct {
	// MongoDB client and database (console state only)
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Upstream is the operations API client the business data lives behind
	Upstream *upstream.Client

	// FileStorage archives report exports
	FileStorage storage.Store
}
