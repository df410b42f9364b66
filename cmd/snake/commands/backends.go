package commands

import (
	"io"

	"github.com/battlesnakeio/termsnake/store"
	"github.com/battlesnakeio/termsnake/store/filestore"
	"github.com/battlesnakeio/termsnake/store/redisstore"
	"github.com/battlesnakeio/termsnake/store/sqlstore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// openStore returns the instrumented store for backend, or nil for "none".
func openStore(backend, args string) (store.Store, error) {
	var s store.Store
	switch backend {
	case "", "none":
		return nil, nil
	case "inmem":
		s = store.InMemStore()
	case "file":
		s = filestore.NewFileStore(args)
	case "redis":
		rs, err := redisstore.NewStore(args)
		if err != nil {
			return nil, errors.Wrap(err, "unable to start up redis store")
		}
		s = rs
	case "sql":
		ss, err := sqlstore.NewSQLStore(args)
		if err != nil {
			return nil, errors.Wrap(err, "unable to start up sql store")
		}
		s = ss
	default:
		return nil, errors.Errorf("invalid backend %q, as one of: [none, inmem, file, redis, sql]", backend)
	}
	return store.InstrumentStore(s), nil
}

func closeStore(s store.Store) {
	if c, ok := s.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.WithError(err).Error("unable to close store")
		}
	}
}
