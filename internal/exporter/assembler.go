package exporter

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/clipbot/clipbot-server/internal/artifact"
)

// Assembler packages a final-stage output file into the response
// contract appropriate to its size class: small artifacts become inline
// base64 payloads, large ones are copied into durable storage and
// returned as a download URL backed by the artifact index.
type Assembler struct {
	repo       artifact.Repository
	storageDir string
	maxInline  int64
	logger     *slog.Logger
}

func NewAssembler(repo artifact.Repository, storageDir string, maxInline int64, logger *slog.Logger) *Assembler {
	return &Assembler{
		repo:       repo,
		storageDir: storageDir,
		maxInline:  maxInline,
		logger:     logger,
	}
}

// Assemble produces the Artifact for a successful transcode result.
// inlinePreferred marks kinds meant for direct preview; even those fall
// back to durable storage above the inline size cap, since multi-megabyte
// payloads inside a JSON response risk exceeding response-size limits.
func (a *Assembler) Assemble(ctx context.Context, wu *WorkUnit, res StageResult, kind Kind, mimeType string, inlinePreferred bool) (*Artifact, error) {
	art := &Artifact{
		ID:       wu.ID(),
		Kind:     kind,
		MimeType: mimeType,
		Size:     res.Size,
	}

	if inlinePreferred && res.Size <= a.maxInline {
		data, err := os.ReadFile(res.Path)
		if err != nil {
			return nil, fmt.Errorf("read artifact payload: %w", err)
		}
		art.InlineBase64 = base64.StdEncoding.EncodeToString(data)
		return art, nil
	}

	fileID := uuid.NewString()
	filename := artifact.SanitizeName(
		fmt.Sprintf("clip-%s%s", fileID, filepath.Ext(res.Path)), 160)

	if err := a.persist(res.Path, filepath.Join(a.storageDir, filename)); err != nil {
		return nil, fmt.Errorf("persist artifact: %w", err)
	}

	rec := &artifact.Record{
		ID:        fileID,
		Filename:  filename,
		MimeType:  mimeType,
		Size:      res.Size,
		Kind:      string(kind),
		CreatedAt: time.Now().UTC(),
	}
	if err := a.repo.Create(ctx, rec); err != nil {
		// The copy is orphaned without an index row; remove it so
		// storage does not accumulate unreachable files.
		os.Remove(filepath.Join(a.storageDir, filename))
		return nil, fmt.Errorf("index artifact: %w", err)
	}

	art.FileID = fileID
	art.DownloadURL = "/api/files/" + fileID

	a.logger.Info("artifact persisted",
		"file_id", fileID,
		"kind", kind,
		"bytes", res.Size,
	)

	return art, nil
}

func (a *Assembler) persist(src, dst string) error {
	if err := os.MkdirAll(a.storageDir, 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
