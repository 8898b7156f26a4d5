package config

import (
	"fmt"

	"github.com/surroundaustralia/rdfx/persistence"
	"github.com/surroundaustralia/rdfx/persistence/graphstore"
	"github.com/surroundaustralia/rdfx/persistence/natsobject"
	"github.com/surroundaustralia/rdfx/persistence/s3"
	"github.com/surroundaustralia/rdfx/persistence/sop"
)

// Open constructs the backend for a named target. The returned close
// function releases any connection the backend holds; it is non-nil
// even for backends with nothing to release.
func (c *Config) Open(name string) (persistence.Backend, func() error, error) {
	target, ok := c.Targets[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no target named %q", persistence.ErrInvalidConfiguration, name)
	}

	noop := func() error { return nil }

	switch target.Kind {
	case "string":
		return persistence.NewString(), noop, nil

	case "file":
		dir := target.File.Dir
		if dir == "" {
			dir = "."
		}
		backend, err := persistence.NewFile(dir)
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil

	case "s3":
		backend, err := s3.New(s3.Config{
			Endpoint:  target.S3.Endpoint,
			Bucket:    target.S3.Bucket,
			AccessKey: target.S3.AccessKey,
			SecretKey: target.S3.SecretKey,
			Region:    target.S3.Region,
			Insecure:  target.S3.Insecure,
		})
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil

	case "nats":
		backend, err := natsobject.New(natsobject.Config{
			URL:    target.NATS.URL,
			Bucket: target.NATS.Bucket,
		})
		if err != nil {
			return nil, nil, err
		}
		return backend, backend.Close, nil

	case "graphdb", "fuseki":
		gsCfg := graphstore.Config{
			SystemIRI:    target.GraphStore.SystemIRI,
			RepositoryID: target.GraphStore.RepositoryID,
			GraphIRI:     target.GraphStore.GraphIRI,
			Username:     target.GraphStore.Username,
			Password:     target.GraphStore.Password,
			Timeout:      target.GraphStore.Timeout,
		}
		var (
			backend *graphstore.Backend
			err     error
		)
		if target.Kind == "graphdb" {
			backend, err = graphstore.NewGraphDB(gsCfg)
		} else {
			backend, err = graphstore.NewFuseki(gsCfg)
		}
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil

	case "sop":
		client, err := sop.New(sop.Config{
			SystemIRI:    target.SOP.SystemIRI,
			Username:     target.SOP.Username,
			Password:     target.SOP.Password,
			Organization: target.SOP.Organization,
			Timeout:      target.SOP.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, noop, nil
	}

	return nil, nil, fmt.Errorf("%w: target %q has unknown kind %q", persistence.ErrInvalidConfiguration, name, target.Kind)
}
