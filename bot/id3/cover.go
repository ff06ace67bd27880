package id3

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/nfnt/resize"
	"golang.org/x/image/webp"
)

const coverSide = 320

// CoverFetcher downloads a thumbnail and turns it into a square JPEG.
type CoverFetcher struct {
	client *retryablehttp.Client
	logger botpkg.Logger
}

// NewCoverFetcher creates a fetcher whose single download is bounded by timeout.
func NewCoverFetcher(timeout time.Duration, logger botpkg.Logger) *CoverFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = nil
	client.HTTPClient.Timeout = timeout
	return &CoverFetcher{client: client, logger: logger}
}

// Prepare downloads url into dir and returns the path of the resized cover.
func (c *CoverFetcher) Prepare(ctx context.Context, url, dir string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("empty thumbnail url")
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail status %d", resp.StatusCode)
	}

	srcPath := filepath.Join(dir, "cover.src")
	out, err := os.Create(srcPath)
	if err != nil {
		return "", err
	}
	n, copyErr := io.Copy(out, io.LimitReader(resp.Body, maxCoverSize+1))
	closeErr := out.Close()
	if copyErr != nil {
		return "", copyErr
	}
	if closeErr != nil {
		return "", closeErr
	}
	if n > maxCoverSize {
		return "", fmt.Errorf("thumbnail too large")
	}

	resized, err := resizeImg(srcPath)
	if err != nil {
		return "", err
	}
	_ = os.Remove(srcPath)
	return resized, nil
}

// resizeImg scales the image to 320x320 with padding.
func resizeImg(filePath string) (string, error) {
	img, err := decodeImage(filePath)
	if err != nil {
		return "", err
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width == 0 || height == 0 {
		return "", fmt.Errorf("empty image %s", filePath)
	}

	var m image.Image
	if width >= height {
		m = resize.Resize(coverSide, uint(height)*coverSide/uint(width), img, resize.Lanczos3)
	} else {
		m = resize.Resize(uint(width)*coverSide/uint(height), coverSide, img, resize.Lanczos3)
	}

	square := image.NewNRGBA(image.Rect(0, 0, coverSide, coverSide))
	offset := image.Point{
		X: (coverSide - m.Bounds().Dx()) / 2,
		Y: (coverSide - m.Bounds().Dy()) / 2,
	}
	draw.Draw(square, m.Bounds().Sub(m.Bounds().Min).Add(offset), m, m.Bounds().Min, draw.Src)

	outPath := filePath + ".resize.jpg"
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create image file error %s", err)
	}

	if err := jpeg.Encode(out, square, &jpeg.Options{Quality: 85}); err != nil {
		_ = out.Close()
		return "", err
	}
	if stat, err := out.Stat(); err == nil && stat.Size() > 200*1024 {
		if _, err := out.Seek(0, io.SeekStart); err != nil {
			_ = out.Close()
			return "", err
		}
		if err := out.Truncate(0); err != nil {
			_ = out.Close()
			return "", err
		}
		if err := jpeg.Encode(out, square, &jpeg.Options{Quality: 60}); err != nil {
			_ = out.Close()
			return "", err
		}
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}

// decodeImage reads JPEG, PNG or WebP, the formats video thumbnails come in.
func decodeImage(filePath string) (image.Image, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	decoders := []func(io.Reader) (image.Image, error){jpeg.Decode, png.Decode, webp.Decode}
	for _, decode := range decoders {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if img, err := decode(file); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image decode error %s", filePath)
}
