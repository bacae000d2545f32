package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

var (
	// ErrEmptyRoutes is returned when a route list has no routes.
	ErrEmptyRoutes = errors.New("route list is empty")

	// ErrMalformedRoutes is returned when a route list is not an array of
	// route objects.
	ErrMalformedRoutes = errors.New("route list is not an array of routes")
)

// LoadManifest parses a JSON route list as written by Generator.Manifest.
// It fails with ErrMalformedRoutes when the document is not an array of
// routes and with ErrEmptyRoutes when the array is empty.
func LoadManifest(data []byte) ([]RouteNode, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformedRoutes
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	var routes []RouteNode
	if err := dec.Decode(&routes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRoutes, err)
	}
	if len(routes) == 0 {
		return nil, ErrEmptyRoutes
	}
	return routes, nil
}

// ReadManifest loads the route list stored at name.
func ReadManifest(fsys billy.Filesystem, name string) ([]RouteNode, error) {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return LoadManifest(data)
}

// LoadRouter parses a route list and builds a router from it.
func LoadRouter(data []byte) (*Router, error) {
	routes, err := LoadManifest(data)
	if err != nil {
		return nil, err
	}
	return NewRouter(routes)
}
