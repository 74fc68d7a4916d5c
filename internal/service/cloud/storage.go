package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	"github.com/solutions/interview-coach/internal/protodef/model"
)

const (
	// TranscriptFilePattern transcript-<sessionId>.json
	TranscriptFilePattern = "interview-transcript/%s.json"
)

var ErrStorageNotConfigured = fmt.Errorf("transcript storage not configured")

// StorageService archives interview transcripts to kodo and hands back the
// public download URL.
type StorageService struct {
	conf    utils.QiniuStorageConfig
	keyPair utils.QiniuKeyPair
	xl      *xlog.Logger
}

func NewStorageService(conf utils.QiniuStorageConfig, keyPair utils.QiniuKeyPair, xl *xlog.Logger) *StorageService {
	if xl == nil {
		xl = xlog.New("storage-service")
	}
	return &StorageService{
		conf:    conf,
		keyPair: keyPair,
		xl:      xl,
	}
}

// Configured whether a bucket is set up for transcript export.
func (s *StorageService) Configured() bool {
	return s.conf.Bucket != "" && s.keyPair.AccessKey != ""
}

// ExportTranscript uploads the session transcript as JSON and returns its URL.
func (s *StorageService) ExportTranscript(xl *xlog.Logger, session *model.SessionDo) (string, error) {
	if xl == nil {
		xl = s.xl
	}
	if !s.Configured() {
		return "", ErrStorageNotConfigured
	}
	transcript := model.TranscriptDo{
		SessionID:     session.ID,
		UserEmail:     session.UserEmail,
		Domain:        session.Domain,
		Role:          session.Role,
		InterviewType: session.InterviewType,
		Difficulty:    session.Difficulty,
		CreatedAt:     session.CreateTime,
		EndedAt:       session.EndTime,
		Messages:      session.Messages,
	}
	data, err := json.Marshal(&transcript)
	if err != nil {
		return "", err
	}
	fileKey := fmt.Sprintf(TranscriptFilePattern, session.ID)
	if err := s.upload(xl, data, fileKey); err != nil {
		return "", err
	}
	return s.conf.URLPrefix + "/" + fileKey, nil
}

func (s *StorageService) upload(xl *xlog.Logger, data []byte, fileKey string) error {
	mac := qbox.NewMac(s.keyPair.AccessKey, s.keyPair.SecretKey)
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", s.conf.Bucket, fileKey),
	}
	upToken := putPolicy.UploadToken(mac)
	cfg := storage.Config{}
	cfg.UseHTTPS = true
	cfg.UseCdnDomains = false
	formUploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}
	err := formUploader.Put(context.Background(), &ret, upToken, fileKey, bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		xl.Errorf("transcript upload failed, error %v", err)
		return err
	}
	xl.Infof("transcript uploaded, key %s", fileKey)
	return nil
}
