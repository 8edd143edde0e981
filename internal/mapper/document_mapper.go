package mapper

import (
	"career-assistant-be/internal/entity"
	"career-assistant-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:          d.Id,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Content:     d.Content,
		ContentHash: d.ContentHash,
		SizeBytes:   d.SizeBytes,
		ChunkCount:  d.ChunkCount,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:          d.Id,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Content:     d.Content,
		ContentHash: d.ContentHash,
		SizeBytes:   d.SizeBytes,
		ChunkCount:  d.ChunkCount,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
