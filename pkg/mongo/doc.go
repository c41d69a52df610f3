// Package mongo connects to the MongoDB deployment holding session documents.
//
// Config is loaded from MONGODB_* environment variables. Credentials given
// through MONGODB_USERNAME/MONGODB_PASSWORD override those embedded in the
// connection URL, and MONGODB_ALLOW_REPLICA_READS routes reads to secondaries
// (secondaryPreferred), trading read-your-writes for read scaling.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := session.NewStore(session.NewMongoCollection(db, session.DefaultCollectionName))
//
// New pings the server and retries RetryAttempts times, RetryInterval apart,
// returning early if ctx is cancelled. Healthcheck adapts a client into a
// readiness probe for httpserver.
package mongo
