package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/golang/glog"
	"github.com/microcosm-cc/exifutil"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rwcarlsen/goexif/exif"

	h "github.com/Chilfish/anonTweet-sub001/helpers"
)

// MediaMirror copies images referenced by fetched records into an
// S3-compatible bucket so the viewer never hotlinks the upstream CDN.
// Everything here is fire-and-forget from the read path: a mirror
// failure is logged and the record is served regardless.
type MediaMirror struct {
	client   *minio.Client
	bucket   string
	download *http.Client
}

const mediaDownloadTimeout = 15 * time.Second

// Avatar thumbnails fit within this square
const avatarThumbSize = 128

// NewMediaMirror creates the mirror against an S3-compatible endpoint
func NewMediaMirror(
	endpoint string,
	accessKey string,
	secretKey string,
	bucket string,
	useTLS bool,
) (*MediaMirror, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useTLS,
	})
	if err != nil {
		return nil, err
	}

	return &MediaMirror{
		client:   client,
		bucket:   bucket,
		download: &http.Client{Timeout: mediaDownloadTimeout},
	}, nil
}

// MirrorRecord extracts the media references a record kind is known to
// carry and mirrors each one. Payloads are otherwise opaque, so absent
// or oddly shaped fields simply mean there is nothing to mirror.
func (m *MediaMirror) MirrorRecord(kind RecordKind, payload json.RawMessage) {
	switch kind {
	case KindPost:
		m.mirrorPost(payload)
	case KindUserProfile:
		m.mirrorProfile(payload)
	}
}

func (m *MediaMirror) mirrorPost(payload json.RawMessage) {
	var post struct {
		Media []struct {
			URL string `json:"url"`
		} `json:"media"`
	}
	if err := json.Unmarshal(payload, &post); err != nil {
		return
	}

	for _, media := range post.Media {
		if media.URL == "" {
			continue
		}
		if err := m.mirror(media.URL, false); err != nil {
			glog.Warningf("mirror(%s) %+v", media.URL, err)
		}
	}
}

func (m *MediaMirror) mirrorProfile(payload json.RawMessage) {
	var profile struct {
		AvatarURL string `json:"avatarUrl"`
	}
	if err := json.Unmarshal(payload, &profile); err != nil {
		return
	}

	if profile.AvatarURL == "" {
		return
	}
	if err := m.mirror(profile.AvatarURL, true); err != nil {
		glog.Warningf("mirror(%s) %+v", profile.AvatarURL, err)
	}
}

// mirror downloads one image and stores it under a name derived from
// its source URL, so mirroring is idempotent. When thumb is set a fitted
// thumbnail is stored alongside the original.
func (m *MediaMirror) mirror(rawURL string, thumb bool) error {
	objectName := objectNameFor(rawURL)

	ctx, cancel := context.WithTimeout(
		context.Background(),
		mediaDownloadTimeout,
	)
	defer cancel()

	// Already mirrored on a previous fetch
	if _, err := m.client.StatObject(
		ctx, m.bucket, objectName, minio.StatObjectOptions{},
	); err == nil {
		return nil
	}

	resp, err := m.download.Get(rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media source returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err = m.client.PutObject(
		ctx,
		m.bucket,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return err
	}

	if !thumb || !strings.HasPrefix(contentType, "image/") {
		return nil
	}

	thumbData, err := makeThumbnail(data)
	if err != nil {
		// The full-size copy made it; a failed thumbnail is not worth
		// failing the mirror over.
		glog.Warningf("makeThumbnail(%s) %+v", rawURL, err)
		return nil
	}

	_, err = m.client.PutObject(
		ctx,
		m.bucket,
		thumbObjectName(objectName),
		bytes.NewReader(thumbData),
		int64(len(thumbData)),
		minio.PutObjectOptions{ContentType: "image/jpeg"},
	)

	return err
}

// makeThumbnail fits the image into the avatar thumbnail square.
// Re-encoding strips the EXIF block, so any orientation tag has to be
// applied to the pixels first or a rotated photo comes out sideways.
func makeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	img = applyOrientation(data, img)

	fitted := imaging.Fit(
		img,
		avatarThumbSize,
		avatarThumbSize,
		imaging.Lanczos,
	)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// objectNameFor derives a stable bucket key from the source URL,
// keeping the original extension where there is one
func objectNameFor(rawURL string) string {
	name := h.Md5sum(rawURL)

	ext := strings.ToLower(path.Ext(rawURL))
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	if ext != "" && len(ext) <= 5 {
		name += ext
	}

	return name
}

// applyOrientation rotates and flips the image per its EXIF orientation
// tag. If the exif data cannot be decoded or the orientation tag not
// read, the image is returned as it arrived.
func applyOrientation(data []byte, img image.Image) image.Image {
	ex, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}

	tag, err := ex.Get(exif.Orientation)
	if err != nil {
		return img
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	angle, flipMode, _ := exifutil.ProcessOrientation(int64(orientation))

	if angle != 0 {
		img = exifutil.Rotate(img, angle)
	}

	if flipMode != 0 {
		img = exifutil.Flip(img, flipMode)
	}

	return img
}

func thumbObjectName(objectName string) string {
	ext := path.Ext(objectName)
	return strings.TrimSuffix(objectName, ext) + "_t.jpg"
}
