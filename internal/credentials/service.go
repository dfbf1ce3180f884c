package credentials

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/google/uuid"
)

type objectStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
}

// WriteCredential is everything a client needs to upload one object and
// reference it afterwards. There is no read credential: reads are public.
type WriteCredential struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// Service issues short-lived write credentials against object storage.
type Service interface {
	IssueWriteCredential(ctx context.Context, fileName, contentType string) (*WriteCredential, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	store objectStore
	now   func() time.Time
}

// NewService constructs a credential service over the given object store.
func NewService(store objectStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{store: store, now: time.Now}, nil
}

func (s *service) IssueWriteCredential(ctx context.Context, fileName, contentType string) (*WriteCredential, error) {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if strings.TrimSpace(contentType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type is required")
	}

	key := buildObjectKey(s.now(), name)
	uploadURL, err := s.store.PresignPut(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "presign upload url")
	}

	return &WriteCredential{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: s.store.PublicURL(key),
	}, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	if err := s.store.Remove(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove object")
	}
	return nil
}

// buildObjectKey prefixes the sanitized filename with a millisecond timestamp
// and a uuid so collisions are impossible and keys sort by upload time.
func buildObjectKey(now time.Time, fileName string) string {
	clean := sanitizeFileName(fileName)
	id := uuid.NewString()
	if clean == "" {
		clean = id
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), id, clean)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
