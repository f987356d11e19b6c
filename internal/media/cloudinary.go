package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cld *cloudinary.Cloudinary) *Cloudinary {
	return &Cloudinary{cld: cld}
}

func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, publicID string) (*Asset, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Overwrite:      api.Bool(false),
		UniqueFilename: api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, errors.New(resp.Error.Message)
	}

	return &Asset{
		PublicID:  resp.PublicID,
		SecureURL: resp.SecureURL,
		Width:     resp.Width,
		Height:    resp.Height,
		Format:    resp.Format,
	}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return errors.New(resp.Error.Message)
	}
	return nil
}

// PublicIDFromURL extracts the public id from a Cloudinary delivery URL,
// dropping the version segment and the file extension.
func PublicIDFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parts := strings.Split(u.Path, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && strings.HasPrefix(rest[0], "v") {
			if _, err := strconv.Atoi(rest[0][1:]); err == nil {
				rest = rest[1:]
			}
		}
		id := strings.Join(rest, "/")
		if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
			id = id[:dot]
		}
		return id, nil
	}

	return "", errors.New("failed to extract public ID from URL")
}

// SignedUpload lets a browser upload straight to Cloudinary.
type SignedUpload struct {
	URL       string `json:"url"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	PublicID  string `json:"public_id"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// Presign signs the parameters of a direct upload for a fresh public id.
func (s *Service) Presign(cfg Credentials, now time.Time) (*SignedUpload, error) {
	if cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	publicID := Folder + "/" + s.newID()
	ts := now.Unix()

	params := url.Values{}
	params.Set("public_id", publicID)
	params.Set("timestamp", strconv.FormatInt(ts, 10))

	sig, err := api.SignParameters(params, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}

	return &SignedUpload{
		URL:       "https://api.cloudinary.com/v1_1/" + cfg.CloudName + "/image/upload",
		APIKey:    cfg.APIKey,
		CloudName: cfg.CloudName,
		PublicID:  publicID,
		Timestamp: ts,
		Signature: sig,
	}, nil
}

type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

func CredentialsOf(cld *cloudinary.Cloudinary) Credentials {
	return Credentials{
		CloudName: cld.Config.Cloud.CloudName,
		APIKey:    cld.Config.Cloud.APIKey,
		APISecret: cld.Config.Cloud.APISecret,
	}
}
