package service

import (
	"errors"

	"github.com/volandoo/fluxiondb/apikeys"
	"github.com/volandoo/fluxiondb/collection"
)

var ErrorCollectionNotFound = errors.New("collection not found")
var ErrorCollectionAlreadyExists = errors.New("collection already exists")
var ErrorApiKeyNotFound = errors.New("api key not found")

// Servicer is the contract the HTTP layer depends on, keeping
// package api free of any direct dependency on package database.
type Servicer interface {
	CreateCollection(name string) (*CollectionInfo, error)
	GetCollection(name string) (*collection.Collection, error)
	GetCollectionInfo(name string) (*CollectionInfo, error)
	ListCollections() []*CollectionInfo
	DropCollection(name string) error

	CreateApiKey(key string, scope apikeys.Scope) error
	RemoveApiKey(key string) error
	ListApiKeys() ([]apikeys.Key, error)
	ResolveApiKey(key string) (apikeys.Scope, bool)
}
