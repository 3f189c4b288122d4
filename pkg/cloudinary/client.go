package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	ResultOK       = "ok"
	ResultNotFound = "not found"
)

var ErrDestroyFailed = errors.New("media host refused to delete the image")

// Client is the part of the media host the storefront uses: deleting
// uploaded images and signing direct browser uploads.
type Client interface {
	Destroy(ctx context.Context, publicID string) (*models.DestroyResult, error)
	DeleteImage(ctx context.Context, publicID string) error
	SignUpload(folder string) (*models.UploadSignature, error)
	GetCloudinary() *cloudinary.Cloudinary
}

type cloudinaryClient struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

func NewCloudinaryClient(cloudName, apiKey, apiSecret string) (Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &cloudinaryClient{
		cld:       cld,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}, nil
}

// Destroy forwards a destroy call and returns the host's verdict.
func (c *cloudinaryClient) Destroy(ctx context.Context, publicID string) (*models.DestroyResult, error) {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete image: %w", err)
	}

	if res.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrDestroyFailed, res.Error.Message)
	}

	return &models.DestroyResult{PublicID: publicID, Result: res.Result}, nil
}

// DeleteImage treats an image that is already gone as deleted.
func (c *cloudinaryClient) DeleteImage(ctx context.Context, publicID string) error {
	res, err := c.Destroy(ctx, publicID)
	if err != nil {
		return err
	}

	switch res.Result {
	case ResultOK, ResultNotFound:
		return nil
	default:
		return fmt.Errorf("%w: result %q", ErrDestroyFailed, res.Result)
	}
}

// SignUpload signs the parameters of a browser-side upload into folder.
func (c *cloudinaryClient) SignUpload(folder string) (*models.UploadSignature, error) {
	timestamp := c.now().Unix()

	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	if folder != "" {
		params.Set("folder", folder)
	}

	signature, err := api.SignParameters(params, c.apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload: %w", err)
	}

	return &models.UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    c.apiKey,
		CloudName: c.cloudName,
		Folder:    folder,
	}, nil
}

// GetCloudinary provides access to the underlying SDK client.
func (c *cloudinaryClient) GetCloudinary() *cloudinary.Cloudinary {
	return c.cld
}

// PublicIDFromURL extracts the public ID from a delivery URL, e.g.
// https://res.cloudinary.com/demo/image/upload/v1234/products/rose.jpg
// gives "products/rose". It returns "" for URLs the host did not issue.
func PublicIDFromURL(rawURL string) string {
	idx := strings.Index(rawURL, "/upload/")
	if idx == -1 {
		return ""
	}

	rest := rawURL[idx+len("/upload/"):]
	if q := strings.IndexAny(rest, "?#"); q != -1 {
		rest = rest[:q]
	}

	// Skip the version segment, "v" followed by digits.
	if slash := strings.Index(rest, "/"); slash > 1 && rest[0] == 'v' {
		if _, err := strconv.ParseUint(rest[1:slash], 10, 64); err == nil {
			rest = rest[slash+1:]
		}
	}

	if dot := strings.LastIndex(rest, "."); dot > strings.LastIndex(rest, "/") {
		rest = rest[:dot]
	}

	return rest
}
