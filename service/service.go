package service

import (
	"fmt"

	"github.com/volandoo/fluxiondb/apikeys"
	"github.com/volandoo/fluxiondb/collection"
	"github.com/volandoo/fluxiondb/database"
)

// CollectionInfo is the summary returned for collection-management
// endpoints; it never exposes record payloads.
type CollectionInfo struct {
	Name         string `json:"name"`
	DocumentsLen int    `json:"documents"`
	HasDirty     bool   `json:"hasDirty"`
}

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{db: db}
}

func (s *Service) CreateCollection(name string) (*CollectionInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	col, err := s.db.CreateCollection(name)
	if err != nil {
		if err.Error() == fmt.Sprintf("collection '%s' already exists", name) {
			return nil, ErrorCollectionAlreadyExists
		}
		return nil, err
	}

	return collectionInfo(col), nil
}

func (s *Service) GetCollection(name string) (*collection.Collection, error) {
	col, exists := s.db.GetCollection(name)
	if !exists {
		return nil, ErrorCollectionNotFound
	}
	return col, nil
}

func (s *Service) GetCollectionInfo(name string) (*CollectionInfo, error) {
	col, err := s.GetCollection(name)
	if err != nil {
		return nil, err
	}
	return collectionInfo(col), nil
}

func (s *Service) ListCollections() []*CollectionInfo {
	names := s.db.ListCollectionNames()

	result := make([]*CollectionInfo, 0, len(names))
	for _, name := range names {
		col, exists := s.db.GetCollection(name)
		if !exists {
			continue
		}
		result = append(result, collectionInfo(col))
	}
	return result
}

func (s *Service) DropCollection(name string) error {
	err := s.db.DropCollection(name)
	if err != nil {
		return ErrorCollectionNotFound
	}
	return nil
}

func (s *Service) CreateApiKey(key string, scope apikeys.Scope) error {
	if key == "" {
		return fmt.Errorf("api key is required")
	}
	return s.db.CreateApiKey(key, scope)
}

func (s *Service) RemoveApiKey(key string) error {
	return s.db.RemoveApiKey(key)
}

func (s *Service) ListApiKeys() ([]apikeys.Key, error) {
	return s.db.ListApiKeys(), nil
}

func (s *Service) ResolveApiKey(key string) (apikeys.Scope, bool) {
	return s.db.ResolveApiKey(key)
}

func collectionInfo(col *collection.Collection) *CollectionInfo {
	return &CollectionInfo{
		Name:         col.Name(),
		DocumentsLen: col.DocumentsLen(),
		HasDirty:     col.HasDirty(),
	}
}
