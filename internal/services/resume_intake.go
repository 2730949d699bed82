package services

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/providers/extract"
	"github.com/yoockh/jobwallah/internal/storage"
	"github.com/yoockh/jobwallah/internal/utils"
)

// ResumeFile is an uploaded resume held in memory.
type ResumeFile struct {
	Name string
	Data []byte
}

func (f *ResumeFile) Ext() string {
	if f == nil {
		return ""
	}
	return extract.NormalizeExt(f.Name)
}

// resumeIntake stores an upload and turns it into text.
type resumeIntake struct {
	uploader  storage.Uploader
	extractor extract.Extractor
}

// storedResume locates an uploaded resume.
type storedResume struct {
	Path   string // returned by the backend, persisted on the row
	Object string
}

func (in resumeIntake) process(ctx context.Context, op, folder, ownerID string, f *ResumeFile) (storedResume, extract.Result, error) {
	if in.uploader == nil {
		return storedResume{}, extract.Result{}, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	ext := f.Ext()
	stored := storedResume{Object: folder + "/" + ownerID + "/" + uuid.NewString() + ext}

	var err error
	stored.Path, err = in.uploader.Upload(ctx, stored.Object, storage.ContentTypeFor(ext), bytes.NewReader(f.Data))
	if err != nil {
		return storedResume{}, extract.Result{}, utils.E(utils.CodeUnavailable, op, "failed to upload resume", err)
	}

	res := extract.Result{Status: extract.StatusFailed}
	if in.extractor != nil {
		res = in.extractor.Extract(ctx, f.Data, ext)
	}
	return stored, res, nil
}

// discard removes an upload whose row was never written. Best effort.
func (in resumeIntake) discard(ctx context.Context, log *logrus.Logger, op string, stored storedResume) {
	if in.uploader == nil || stored.Object == "" {
		return
	}
	if err := in.uploader.Delete(context.WithoutCancel(ctx), stored.Object); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"op": op, "object": stored.Object}).Warn("failed to remove orphaned resume")
	}
}
