package index

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// ContentIndex is an in-memory Bleve index over a set of file contents.
// It lives for one search and holds no repository state afterwards.
type ContentIndex struct {
	mu    sync.RWMutex
	index bleve.Index
	// raw content for line-level result extraction, keyed by relative path
	fileContents map[string]string
}

// NewContentIndex creates an empty in-memory index.
func NewContentIndex() (*ContentIndex, error) {
	bleveIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return &ContentIndex{
		index:        bleveIndex,
		fileContents: make(map[string]string),
	}, nil
}

type bleveDocument struct {
	Content string `json:"content"`
	Path    string `json:"path"`
	Mode    string `json:"mode"`
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("content", contentField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Store = true
	pathField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathField)

	modeField := bleve.NewKeywordFieldMapping()
	modeField.Store = true
	modeField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("mode", modeField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexFile adds or replaces one file. mode is the editor mode of the file.
func (ci *ContentIndex) IndexFile(relativePath, content, mode string) error {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.fileContents[relativePath] = content
	doc := bleveDocument{Content: content, Path: relativePath, Mode: mode}
	if err := ci.index.Index(relativePath, doc); err != nil {
		return fmt.Errorf("indexing file %s: %w", relativePath, err)
	}
	return nil
}

// DocumentCount returns the number of indexed files.
func (ci *ContentIndex) DocumentCount() uint64 {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	count, _ := ci.index.DocCount()
	return count
}

// Close releases the Bleve index.
func (ci *ContentIndex) Close() error {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	return ci.index.Close()
}
