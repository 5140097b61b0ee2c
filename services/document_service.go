package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UploadInput is a parsed multipart upload.
type UploadInput struct {
	ProjectID   string
	TaskID      string
	KPIUpdateID string
	Filename    string
	File        io.Reader
	Metadata    map[string]string
}

type DocumentService interface {
	Upload(ctx context.Context, session *models.Session, in UploadInput) (*models.UploadResult, error)
	Get(ctx context.Context, session *models.Session, id primitive.ObjectID) (*models.DocumentContent, error)
	ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.Document, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type documentService struct {
	documents  repository.DocumentRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	kpiUpdates repository.KPIUpdateRepository
	logger     *zap.Logger
}

func NewDocumentService(documents repository.DocumentRepository, projects repository.ProjectRepository, tasks repository.TaskRepository, kpiUpdates repository.KPIUpdateRepository, logger *zap.Logger) DocumentService {
	return &documentService{
		documents:  documents,
		projects:   projects,
		tasks:      tasks,
		kpiUpdates: kpiUpdates,
		logger:     logger.With(zap.String("component", "documents")),
	}
}

func (s *documentService) Upload(ctx context.Context, session *models.Session, in UploadInput) (*models.UploadResult, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	doc, err := s.resolveReferences(ctx, session, in)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove temp upload", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()

	size, err := io.Copy(tmp, in.File)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer upload: %w", err)
	}

	extracted, extractErr := extractMetadata(tmp.Name(), in.Filename)
	if extractErr != nil {
		s.logger.Warn("metadata extraction failed", zap.String("filename", in.Filename), zap.Error(extractErr))
		extracted = map[string]string{}
	}
	doc.Metadata = mergeMetadata(extracted, in.Metadata)
	doc.MimeType = extracted["MIMEType"]
	if doc.MimeType == "" {
		doc.MimeType = defaultMimeType
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}
	fileID, err := s.documents.UploadFile(ctx, in.Filename, tmp, session.UserID.Hex(), doc.MimeType)
	if err != nil {
		return nil, err
	}

	doc.FileID = fileID
	doc.Filename = in.Filename
	doc.Size = size
	doc.CreatedAt = time.Now()
	doc.CreatedBy = session.UserID

	if err := s.documents.Create(ctx, doc); err != nil {
		// CLEANUP: the blob has no record pointing at it
		if cleanupErr := s.documents.DeleteFile(context.Background(), fileID); cleanupErr != nil {
			s.logger.Error("failed to clean up uploaded file", zap.String("file_id", fileID.Hex()), zap.Error(cleanupErr))
		}
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID.Hex()),
		zap.String("project_id", doc.ProjectID.Hex()),
		zap.Int64("size", size),
		zap.Bool("metadata_extracted", extractErr == nil),
	)
	return &models.UploadResult{
		ID:                doc.ID,
		Metadata:          doc.Metadata,
		MetadataExtracted: extractErr == nil,
	}, nil
}

// resolveReferences validates the ids of an upload and checks they all belong
// to one project the session can see.
func (s *documentService) resolveReferences(ctx context.Context, session *models.Session, in UploadInput) (*models.Document, error) {
	projectID, err := ParseID("projectId", in.ProjectID)
	if err != nil {
		return nil, err
	}
	doc := &models.Document{ProjectID: projectID}

	if in.TaskID != "" {
		taskID, err := ParseID("taskId", in.TaskID)
		if err != nil {
			return nil, err
		}
		doc.TaskID = &taskID
	}
	if in.KPIUpdateID != "" {
		updateID, err := ParseID("kpiUpdateId", in.KPIUpdateID)
		if err != nil {
			return nil, err
		}
		doc.KPIUpdateID = &updateID
	}

	if !session.CanView(projectID) {
		return nil, ErrForbidden
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}

	if doc.TaskID != nil {
		task, err := s.tasks.GetByID(ctx, *doc.TaskID)
		if err != nil {
			return nil, notFound("task", err)
		}
		if task.ProjectID != projectID {
			return nil, fmt.Errorf("task belongs to another project: %w", ErrValidation)
		}
	}
	if doc.KPIUpdateID != nil {
		update, err := s.kpiUpdates.GetByID(ctx, *doc.KPIUpdateID)
		if err != nil {
			return nil, notFound("kpi update", err)
		}
		if update.ProjectID != projectID {
			return nil, fmt.Errorf("kpi update belongs to another project: %w", ErrValidation)
		}
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, session *models.Session, id primitive.ObjectID) (*models.DocumentContent, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("document", err)
	}
	if !session.CanView(doc.ProjectID) {
		return nil, ErrForbidden
	}

	stream, err := s.documents.DownloadFile(ctx, doc.FileID)
	if err != nil {
		return nil, notFound("document file", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	return &models.DocumentContent{
		Document:   *doc,
		BinaryData: base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (s *documentService) ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.Document, error) {
	if !session.CanView(projectID) {
		return nil, ErrForbidden
	}
	return s.documents.ListByProject(ctx, projectID)
}

func (s *documentService) Delete(ctx context.Context, id primitive.ObjectID) error {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return notFound("document", err)
	}

	if err := s.documents.Delete(ctx, id); err != nil {
		return notFound("document", err)
	}
	if err := s.documents.DeleteFile(ctx, doc.FileID); err != nil {
		s.logger.Warn("document record removed but file remains",
			zap.String("document_id", id.Hex()),
			zap.String("file_id", doc.FileID.Hex()),
			zap.Error(err),
		)
	}
	s.logger.Info("document deleted", zap.String("document_id", id.Hex()))
	return nil
}
