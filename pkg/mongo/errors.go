package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("mongo.connect_failed")
	ErrHealthcheckFailed      = errors.New("mongo.healthcheck_failed")
	ErrMissingDatabase        = errors.New("mongo.missing_database")
)
