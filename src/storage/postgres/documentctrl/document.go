package documentctrl

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Document is the registry record for one uploaded PDF. The chunks
// themselves live in the vector index under Namespace; this record only
// exists so uploads can be listed and replayed.
type Document struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Filename   string    `gorm:"not null" json:"filename"`
	Namespace  string    `gorm:"not null;index" json:"namespace"`
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	MinioURL   string    `gorm:"not null;column:minio_url" json:"minio_url"` // bucket name + object name
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DocumentService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	return &DocumentService{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id int64) (*Document, error) {
	var document Document
	result := s.db.WithContext(ctx).First(&document, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %v", result.Error)
	}
	return &document, nil
}

func (s *DocumentService) Create(ctx context.Context, filename, namespace, minioURL string, sizeBytes int64) (*Document, error) {
	document := &Document{
		ID:        s.snowflake.Generate().Int64(),
		Filename:  filename,
		Namespace: namespace,
		SizeBytes: sizeBytes,
		MinioURL:  minioURL,
	}

	result := s.db.WithContext(ctx).Create(document)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create document: %v", result.Error)
	}

	return document, nil
}

// SetChunkCount records how many chunks an ingestion produced.
func (s *DocumentService) SetChunkCount(ctx context.Context, id int64, count int) error {
	result := s.db.WithContext(ctx).Model(&Document{}).Where("id = ?", id).Update("chunk_count", count)
	if result.Error != nil {
		return fmt.Errorf("failed to update chunk count: %v", result.Error)
	}
	return nil
}

func (s *DocumentService) List(ctx context.Context, limit, offset int) ([]Document, error) {
	var documents []Document
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&documents)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list documents: %v", result.Error)
	}
	return documents, nil
}
